package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sameer7300/Oraagh/internal/domain"
)

// ProductFilter narrows and orders a catalog listing.
type ProductFilter struct {
	Query        string
	CategorySlug string
	ProductType  string
	Sort         string // price_asc, price_desc, name_asc, name_desc
	Page         int
	PerPage      int
}

const productColumns = `p.id, p.name, p.slug, p.description, COALESCE(p.sku, ''), p.category_id,
	p.price, p.tax_percent, p.stock_quantity, p.product_type, p.image_url,
	p.is_featured, p.is_active, p.created_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	var categoryID sql.NullInt64
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.SKU,
		&categoryID,
		&p.Price,
		&p.TaxPercent,
		&p.StockQty,
		&p.ProductType,
		&p.ImageURL,
		&p.IsFeatured,
		&p.IsActive,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	return &p, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.is_active`
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		query += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d OR p.sku ILIKE $%d)`, n, n, n)
	}
	if filter.CategorySlug != "" {
		args = append(args, filter.CategorySlug)
		query += fmt.Sprintf(` AND p.category_id = (SELECT id FROM categories WHERE slug = $%d)`, len(args))
	}
	if filter.ProductType != "" {
		args = append(args, filter.ProductType)
		query += fmt.Sprintf(` AND p.product_type = $%d`, len(args))
	}

	switch filter.Sort {
	case "price_asc":
		query += ` ORDER BY p.price ASC`
	case "price_desc":
		query += ` ORDER BY p.price DESC`
	case "name_asc":
		query += ` ORDER BY p.name ASC`
	case "name_desc":
		query += ` ORDER BY p.name DESC`
	default:
		query += ` ORDER BY p.created_at DESC, p.id DESC`
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, perPage, (page-1)*perPage)
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.slug = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by slug: %w", err)
	}
	return p, nil
}

func (r *Repository) ProductExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query product existence: %w", err)
	}
	return exists, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return categories, nil
}

func (r *Repository) CreateReview(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (product_id, user_id, rating, comment)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repository) ListReviews(ctx context.Context, productID int64) ([]*domain.Review, error) {
	query := `SELECT id, product_id, user_id, rating, comment, created_at
	          FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return reviews, nil
}

func (r *Repository) AverageRating(ctx context.Context, productID int64) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `SELECT AVG(rating) FROM reviews WHERE product_id = $1`, productID).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("query average rating: %w", err)
	}
	return avg.Float64, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sameer7300/Oraagh/internal/domain"
)

func (r *Repository) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	query := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`

	var cart domain.Cart
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}

	items, err := r.loadCartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *Repository) GetOrCreateCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	query := `INSERT INTO carts (user_id) VALUES ($1)
	          ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
	          RETURNING id, user_id, created_at, updated_at`

	var cart domain.Cart
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert cart: %w", err)
	}

	items, err := r.loadCartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *Repository) loadCartItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	query := `SELECT ci.id, ci.product_id, ci.quantity, ci.added_at,
	                 p.id, p.name, p.slug, p.description, p.price, p.tax_percent, p.image_url, p.is_active
	          FROM cart_items ci
	          JOIN products p ON p.id = ci.product_id
	          WHERE ci.cart_id = $1
	          ORDER BY ci.added_at, ci.id`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		var product domain.Product
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Quantity,
			&item.AddedAt,
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Description,
			&product.Price,
			&product.TaxPercent,
			&product.ImageURL,
			&product.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Product = &product
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

func (r *Repository) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	cart, err := r.GetOrCreateCart(ctx, userID)
	if err != nil {
		return err
	}

	query := `INSERT INTO cart_items (cart_id, product_id, quantity) VALUES ($1, $2, $3)
	          ON CONFLICT (cart_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	if _, err := r.db.ExecContext(ctx, query, cart.ID, productID, quantity); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}

	return r.touchCart(ctx, cart.ID)
}

func (r *Repository) UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1
	          WHERE id = $2 AND cart_id = (SELECT id FROM carts WHERE user_id = $3)`
	res, err := r.db.ExecContext(ctx, query, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrCartItemNotFound
	}

	return r.touchCartByUser(ctx, userID)
}

func (r *Repository) RemoveItem(ctx context.Context, userID, itemID int64) error {
	query := `DELETE FROM cart_items
	          WHERE id = $1 AND cart_id = (SELECT id FROM carts WHERE user_id = $2)`
	res, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrCartItemNotFound
	}

	return r.touchCartByUser(ctx, userID)
}

func (r *Repository) ClearCart(ctx context.Context, userID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return r.touchCartByUser(ctx, userID)
}

// ListStaleCarts returns non-empty carts whose row has not been touched
// since cutoff. Used by the dispatcher sweep to catch carts abandoned
// without a later cart-page visit.
func (r *Repository) ListStaleCarts(ctx context.Context, cutoff time.Time) ([]*domain.Cart, error) {
	query := `SELECT DISTINCT c.id, c.user_id, c.created_at, c.updated_at
	          FROM carts c
	          JOIN cart_items ci ON ci.cart_id = c.id
	          WHERE c.updated_at < $1
	          ORDER BY c.id`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query stale carts: %w", err)
	}
	defer rows.Close()

	var carts []*domain.Cart
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		carts = append(carts, &cart)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, cart := range carts {
		items, err := r.loadCartItems(ctx, cart.ID)
		if err != nil {
			return nil, err
		}
		cart.Items = items
	}

	return carts, nil
}

func (r *Repository) touchCart(ctx context.Context, cartID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}

func (r *Repository) touchCartByUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE carts SET updated_at = NOW() WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}

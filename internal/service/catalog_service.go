package service

import (
	"context"
	"fmt"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/repository"
)

// ProductDetail bundles everything the product page renders.
type ProductDetail struct {
	Product       *domain.Product  `json:"product"`
	Reviews       []*domain.Review `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
}

type CatalogService struct {
	products repository.ProductStore
}

func NewCatalogService(products repository.ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.products.ListProducts(ctx, filter)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.products.ListCategories(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	reviews, err := s.products.ListReviews(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	avg, err := s.products.AverageRating(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	return &ProductDetail{
		Product:       product,
		Reviews:       reviews,
		AverageRating: avg,
	}, nil
}

func (s *CatalogService) AddReview(ctx context.Context, userID int64, slug string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	product, err := s.products.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID: product.ID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.products.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

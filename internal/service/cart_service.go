package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sameer7300/Oraagh/internal/cache"
	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/repository"
)

type CartService struct {
	repo    repository.CartStore
	cache   cache.CartCache
	tracker *Tracker
	sfg     singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartStore, cache cache.CartCache, tracker *Tracker) *CartService {
	return &CartService{
		repo:    repo,
		cache:   cache,
		tracker: tracker,
	}
}

// GetCart serves the cart page. Viewing the cart counts as activity for
// abandonment tracking and resets a checkout-stage episode back to cart.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.getCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tracker.RecordCartActivity(ctx, userID, cart); err != nil {
		log.Printf("abandonment tracking failed for user %d: %v", userID, err)
	}
	return cart, nil
}

func (s *CartService) getCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(cacheGroupKey(userID), func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) {
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			errSet := s.cache.Set(context.Background(), userID, cart)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) error {
	if errAdd := s.repo.AddItem(ctx, userID, productID, quantity); errAdd != nil {
		log.Printf("repo add item error: %v", errAdd)
		return errAdd
	}

	s.invalidateCache(userID)
	s.trackActivity(ctx, userID)
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, itemID)
	}

	if errUpdate := s.repo.UpdateItemQuantity(ctx, userID, itemID, quantity); errUpdate != nil {
		log.Printf("repo update item quantity error: %v", errUpdate)
		return errUpdate
	}

	s.invalidateCache(userID)
	s.trackActivity(ctx, userID)
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	if errRemove := s.repo.RemoveItem(ctx, userID, itemID); errRemove != nil {
		log.Printf("repo remove item error: %v", errRemove)
		return errRemove
	}

	s.invalidateCache(userID)
	s.trackActivity(ctx, userID)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID int64) error {
	if errClear := s.repo.ClearCart(ctx, userID); errClear != nil {
		log.Printf("repo clear cart error: %v", errClear)
		return errClear
	}

	s.invalidateCache(userID)
	return nil
}

// trackActivity refreshes the abandonment record from the stored cart.
// Tracking failures never surface to the customer.
func (s *CartService) trackActivity(ctx context.Context, userID int64) {
	cart, err := s.repo.GetCart(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrCartNotFound) {
			log.Printf("load cart for tracking failed: %v", err)
		}
		return
	}
	if err := s.tracker.RecordCartActivity(ctx, userID, cart); err != nil {
		log.Printf("abandonment tracking failed for user %d: %v", userID, err)
	}
}

func (s *CartService) invalidateCache(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}

func cacheGroupKey(userID int64) string {
	return "cart:" + strconv.FormatInt(userID, 10)
}

package cache

import (
	"context"
	"errors"

	"github.com/sameer7300/Oraagh/internal/domain"
)

// CartCache fronts the cart table for reads; the cart service
// invalidates entries on every mutation.
type CartCache interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	Set(ctx context.Context, userID int64, cart *domain.Cart) error
	Delete(ctx context.Context, userID int64) error
}

var ErrCacheMiss = errors.New("cache miss")

package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/repository"
)

// Tracker maintains the single unrecovered AbandonedCart record per
// user. Cart views and mutations keep it at the cart stage, starting
// checkout advances it, placing an order terminates it.
type Tracker struct {
	abandoned repository.AbandonedCartStore
}

func NewTracker(abandoned repository.AbandonedCartStore) *Tracker {
	return &Tracker{abandoned: abandoned}
}

// BuildSnapshot freezes the cart lines so reminder emails can render
// what the customer saw even after products change or disappear.
func BuildSnapshot(cart *domain.Cart) ([]domain.SnapshotItem, decimal.Decimal) {
	items := make([]domain.SnapshotItem, 0, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			continue
		}
		items = append(items, domain.SnapshotItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			UnitPrice:   item.Product.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal(),
			ImageURL:    item.Product.ImageURL,
		})
	}
	return items, cart.Total()
}

// RecordCartActivity upserts the user's unrecovered record at the cart
// stage. Returning to the cart resets a checkout-stage record back to
// cart; the reminder flags are intentionally left untouched on that
// transition (matching the shipped behavior, see DESIGN.md).
func (t *Tracker) RecordCartActivity(ctx context.Context, userID int64, cart *domain.Cart) error {
	if cart == nil || cart.IsEmpty() {
		return nil
	}

	snapshot, total := BuildSnapshot(cart)
	now := time.Now()

	rec, err := t.abandoned.GetUnrecovered(ctx, userID)
	if errors.Is(err, repository.ErrNoActiveRecord) {
		rec = &domain.AbandonedCart{
			UserID:         userID,
			Stage:          domain.StageCart,
			Snapshot:       snapshot,
			CartTotal:      total,
			CartCreatedAt:  cart.CreatedAt,
			LastActivityAt: now,
		}
		return t.abandoned.Create(ctx, rec)
	}
	if err != nil {
		return err
	}

	rec.Stage = domain.StageCart
	rec.Snapshot = snapshot
	rec.CartTotal = total
	rec.LastActivityAt = now
	return t.abandoned.Update(ctx, rec)
}

// RecordCheckoutStart advances the record to the checkout stage.
// checkout_started_at is set once per episode and keeps its original
// value if the user reloads the checkout page.
func (t *Tracker) RecordCheckoutStart(ctx context.Context, userID int64, cart *domain.Cart) error {
	if cart == nil || cart.IsEmpty() {
		return nil
	}

	snapshot, total := BuildSnapshot(cart)
	now := time.Now()

	rec, err := t.abandoned.GetUnrecovered(ctx, userID)
	if errors.Is(err, repository.ErrNoActiveRecord) {
		rec = &domain.AbandonedCart{
			UserID:            userID,
			Stage:             domain.StageCheckout,
			Snapshot:          snapshot,
			CartTotal:         total,
			CartCreatedAt:     cart.CreatedAt,
			LastActivityAt:    now,
			CheckoutStartedAt: &now,
		}
		return t.abandoned.Create(ctx, rec)
	}
	if err != nil {
		return err
	}

	rec.Stage = domain.StageCheckout
	rec.Snapshot = snapshot
	rec.CartTotal = total
	rec.LastActivityAt = now
	if rec.CheckoutStartedAt == nil {
		rec.CheckoutStartedAt = &now
	}
	return t.abandoned.Update(ctx, rec)
}

// MarkRecovered terminates the user's abandonment episode. Called right
// after the order rows are persisted and before the cart is cleared,
// so a recovered cart is never picked up by a later dispatcher pass.
func (t *Tracker) MarkRecovered(ctx context.Context, userID int64) error {
	return t.abandoned.MarkRecovered(ctx, userID, time.Now())
}

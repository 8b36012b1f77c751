package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AbandonmentStage string

const (
	StageCart     AbandonmentStage = "cart"
	StageCheckout AbandonmentStage = "checkout"
)

// SnapshotItem is one cart line frozen at capture time. The reminder
// email renders from these fields, not from live product rows.
type SnapshotItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"product_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ImageURL    string          `json:"product_image,omitempty"`
}

// AbandonedCart tracks one abandonment episode for a user. At most one
// unrecovered record exists per user; it advances cart -> checkout and
// terminates when the user places an order.
type AbandonedCart struct {
	ID        int64
	UserID    int64
	Stage     AbandonmentStage
	Snapshot  []SnapshotItem
	CartTotal decimal.Decimal

	CartCreatedAt     time.Time
	LastActivityAt    time.Time
	CheckoutStartedAt *time.Time

	CartReminderSent       bool
	CartReminderSentAt     *time.Time
	CheckoutReminderSent   bool
	CheckoutReminderSentAt *time.Time

	IsRecovered bool
	RecoveredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	// CartReminderDelay is how long a cart-stage record must sit idle
	// before the cart reminder goes out.
	CartReminderDelay = 2 * time.Hour
	// CheckoutReminderDelay is measured from checkout_started_at.
	CheckoutReminderDelay = time.Hour
)

func (a *AbandonedCart) HoursSinceLastActivity(now time.Time) float64 {
	return now.Sub(a.LastActivityAt).Hours()
}

// ShouldSendCartReminder reports whether the cart-stage reminder is due.
func (a *AbandonedCart) ShouldSendCartReminder(now time.Time) bool {
	return a.Stage == StageCart &&
		!a.CartReminderSent &&
		!a.IsRecovered &&
		now.Sub(a.LastActivityAt) >= CartReminderDelay
}

// ShouldSendCheckoutReminder reports whether the checkout-stage reminder is due.
func (a *AbandonedCart) ShouldSendCheckoutReminder(now time.Time) bool {
	return a.Stage == StageCheckout &&
		!a.CheckoutReminderSent &&
		!a.IsRecovered &&
		a.CheckoutStartedAt != nil &&
		now.Sub(*a.CheckoutStartedAt) >= CheckoutReminderDelay
}

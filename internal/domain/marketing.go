package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

type Post struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug"`
	Body      string     `json:"body"`
	Status    PostStatus `json:"status"`
	Views     int64      `json:"views"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DeliveryCharge is a selectable shipping option shown with the cart.
type DeliveryCharge struct {
	ID        int64           `json:"id"`
	Label     string          `json:"label"`
	Charge    decimal.Decimal `json:"charge"`
	IsDefault bool            `json:"is_default"`
	IsActive  bool            `json:"is_active"`
}

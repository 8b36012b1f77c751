package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	SKU         string          `json:"sku,omitempty"`
	CategoryID  *int64          `json:"category_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	StockQty    int             `json:"stock_quantity"`
	ProductType string          `json:"product_type"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsFeatured  bool            `json:"is_featured"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TaxAmount returns the tax charged on a single unit.
func (p *Product) TaxAmount() decimal.Decimal {
	return p.Price.Mul(p.TaxPercent).Div(decimal.NewFromInt(100))
}

// PriceWithTax is the unit price the customer actually pays.
func (p *Product) PriceWithTax() decimal.Decimal {
	return p.Price.Add(p.TaxAmount())
}

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

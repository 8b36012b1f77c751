package mailer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sameer7300/Oraagh/internal/domain"
)

// Message is one outbound email with an HTML body and a plain-text
// alternative.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a single message synchronously. There is no batching or
// retry here; callers decide what a failed send means.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// Site carries the only request-derived values email templates need.
// Batch jobs construct it from configuration instead of a live request.
type Site struct {
	Scheme string
	Domain string
}

func (s Site) BaseURL() string {
	return s.Scheme + "://" + s.Domain
}

// ReminderData feeds the abandoned cart and abandoned checkout templates.
type ReminderData struct {
	Site  Site
	User  *domain.User
	Items []domain.SnapshotItem
	Total decimal.Decimal
}

// OrderEmailData feeds order confirmation, admin notification and
// status change templates.
type OrderEmailData struct {
	Site     Site
	User     *domain.User
	Order    *domain.Order
	Headline string
	Message  string
}

type NewsletterData struct {
	Site    Site
	Subject string
	Message string
}

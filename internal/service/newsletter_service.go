package service

import (
	"context"
	"fmt"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/repository"
)

type NewsletterService struct {
	marketing repository.MarketingStore
	mailer    mailer.Mailer
	templates *mailer.TemplateSet
	site      mailer.Site
}

func NewNewsletterService(
	marketing repository.MarketingStore,
	m mailer.Mailer,
	templates *mailer.TemplateSet,
	site mailer.Site,
) *NewsletterService {
	return &NewsletterService{
		marketing: marketing,
		mailer:    m,
		templates: templates,
		site:      site,
	}
}

func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	return s.marketing.CreateSubscriber(ctx, email)
}

// SendBroadcast emails every subscriber in a single message. Returns
// the number of recipients.
func (s *NewsletterService) SendBroadcast(ctx context.Context, subject, body string) (int, error) {
	emails, err := s.marketing.ListSubscriberEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscribers: %w", err)
	}
	if len(emails) == 0 {
		return 0, nil
	}

	data := mailer.NewsletterData{Site: s.site, Subject: subject, Message: body}
	html, text, err := s.templates.Render("newsletter", data)
	if err != nil {
		return 0, fmt.Errorf("render newsletter: %w", err)
	}

	msg := &mailer.Message{
		To:      emails,
		Subject: subject,
		Text:    text,
		HTML:    html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return 0, fmt.Errorf("send newsletter: %w", err)
	}
	return len(emails), nil
}

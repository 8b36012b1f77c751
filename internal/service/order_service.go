package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/repository"
)

type statusNotice struct {
	subject  string
	headline string
	message  string
}

var statusNotices = map[domain.OrderStatus]statusNotice{
	domain.OrderStatusProcessing: {
		subject:  "Your Order is Being Processed",
		headline: "Order Processing",
		message:  "Good news! Your order is now being processed and will be prepared for shipment soon.",
	},
	domain.OrderStatusShipped: {
		subject:  "Your Order Has Been Shipped",
		headline: "Order Shipped",
		message:  "Your order is on its way! You can track its progress with the details below.",
	},
	domain.OrderStatusDelivered: {
		subject:  "Your Order Has Been Delivered",
		headline: "Order Delivered",
		message:  "Your order has been delivered. We hope you enjoy your purchase!",
	},
	domain.OrderStatusCancelled: {
		subject:  "Your Order Has Been Cancelled",
		headline: "Order Cancelled",
		message:  "Your order has been cancelled. If you did not request this, please contact our support team.",
	},
}

type OrderService struct {
	orders    repository.OrderStore
	users     repository.UserStore
	mailer    mailer.Mailer
	templates *mailer.TemplateSet
	site      mailer.Site
}

func NewOrderService(
	orders repository.OrderStore,
	users repository.UserStore,
	m mailer.Mailer,
	templates *mailer.TemplateSet,
	site mailer.Site,
) *OrderService {
	return &OrderService{
		orders:    orders,
		users:     users,
		mailer:    m,
		templates: templates,
		site:      site,
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) ListByUser(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

// ChangeStatus transitions the order and notifies the customer by
// email. A no-op transition sends nothing. Email failure does not roll
// back the status change.
func (s *OrderService) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}

	previous := order.Status
	order.Status = status
	order.UpdatedAt = time.Now()
	if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	log.Printf("order %s status %s -> %s", order.OrderNumber, previous, status)

	s.sendStatusEmail(ctx, order)
	return order, nil
}

// SetTracking records courier details on a shipped order.
func (s *OrderService) SetTracking(ctx context.Context, id uuid.UUID, trackingNumber, courierName, courierContact, trackingURL string) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.TrackingNumber = trackingNumber
	order.CourierName = courierName
	order.CourierContact = courierContact
	order.TrackingURL = trackingURL
	if err := s.orders.UpdateTracking(ctx, id, trackingNumber, courierName, courierContact, trackingURL); err != nil {
		return nil, fmt.Errorf("update tracking: %w", err)
	}
	return order, nil
}

func (s *OrderService) sendStatusEmail(ctx context.Context, order *domain.Order) {
	notice, ok := statusNotices[order.Status]
	if !ok {
		return
	}

	user, err := s.users.GetUser(ctx, order.UserID)
	if err != nil {
		log.Printf("load user %d for status email: %v", order.UserID, err)
		return
	}

	data := mailer.OrderEmailData{
		Site:     s.site,
		User:     user,
		Order:    order,
		Headline: notice.headline,
		Message:  notice.message,
	}
	html, text, err := s.templates.Render("order_status", data)
	if err != nil {
		log.Printf("render status email for %s: %v", order.OrderNumber, err)
		return
	}

	msg := &mailer.Message{
		To:      []string{order.BillingEmail},
		Subject: fmt.Sprintf("%s - %s", notice.subject, order.OrderNumber),
		Text:    text,
		HTML:    html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Printf("send status email for %s to %s: %v", order.OrderNumber, order.BillingEmail, err)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/google/uuid"

	"github.com/sameer7300/Oraagh/internal/cache"
	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/mailer"
	"github.com/sameer7300/Oraagh/internal/repository"
)

// PlaceOrderInput is the checkout form. Shipping fields fall back to
// their billing counterparts when left empty.
type PlaceOrderInput struct {
	BillingName    string `json:"billing_name" validate:"required,max=100"`
	BillingEmail   string `json:"billing_email" validate:"required,email"`
	BillingPhone   string `json:"billing_phone" validate:"required,max=20"`
	BillingAddress string `json:"billing_address" validate:"required"`
	BillingCity    string `json:"billing_city" validate:"required,max=100"`
	BillingState   string `json:"billing_state" validate:"required,max=100"`
	BillingZip     string `json:"billing_zip" validate:"required,max=20"`
	BillingCountry string `json:"billing_country" validate:"required,max=100"`

	ShippingName    string `json:"shipping_name" validate:"max=100"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city" validate:"max=100"`
	ShippingState   string `json:"shipping_state" validate:"max=100"`
	ShippingZip     string `json:"shipping_zip" validate:"max=20"`
	ShippingCountry string `json:"shipping_country" validate:"max=100"`

	PaymentMethod string `json:"payment_method" validate:"max=50"`
	CustomerNotes string `json:"customer_notes"`
}

func (in *PlaceOrderInput) applyDefaults() {
	if in.ShippingName == "" {
		in.ShippingName = in.BillingName
	}
	if in.ShippingAddress == "" {
		in.ShippingAddress = in.BillingAddress
	}
	if in.ShippingCity == "" {
		in.ShippingCity = in.BillingCity
	}
	if in.ShippingState == "" {
		in.ShippingState = in.BillingState
	}
	if in.ShippingZip == "" {
		in.ShippingZip = in.BillingZip
	}
	if in.ShippingCountry == "" {
		in.ShippingCountry = in.BillingCountry
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "Cash on Delivery"
	}
}

type CheckoutService struct {
	carts      repository.CartStore
	orders     repository.OrderStore
	users      repository.UserStore
	tracker    *Tracker
	cache      cache.CartCache
	mailer     mailer.Mailer
	templates  *mailer.TemplateSet
	site       mailer.Site
	adminEmail string
}

func NewCheckoutService(
	carts repository.CartStore,
	orders repository.OrderStore,
	users repository.UserStore,
	tracker *Tracker,
	cartCache cache.CartCache,
	m mailer.Mailer,
	templates *mailer.TemplateSet,
	site mailer.Site,
	adminEmail string,
) *CheckoutService {
	return &CheckoutService{
		carts:      carts,
		orders:     orders,
		users:      users,
		tracker:    tracker,
		cache:      cartCache,
		mailer:     m,
		templates:  templates,
		site:       site,
		adminEmail: adminEmail,
	}
}

// StartCheckout loads the cart for the checkout page and advances the
// abandonment record to the checkout stage.
func (s *CheckoutService) StartCheckout(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if err := s.tracker.RecordCheckoutStart(ctx, userID, cart); err != nil {
		log.Printf("checkout tracking failed for user %d: %v", userID, err)
	}
	return cart, nil
}

// PlaceOrder persists the order with its line items, marks the
// abandonment episode recovered, clears the cart, and sends the
// confirmation emails. Email failures are logged but never fail the
// order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID int64, input PlaceOrderInput) (*domain.Order, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	input.applyDefaults()
	order := buildOrder(userID, cart, input)

	// retry on the off chance the random order number collides
	for attempt := 0; ; attempt++ {
		err = s.orders.CreateOrder(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateOrder) && attempt < 4 {
			order.OrderNumber = newOrderNumber()
			continue
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Recovery must be flagged before the cart is cleared, in the same
	// request, so the dispatcher never sees a completed purchase as an
	// abandoned cart.
	if err := s.tracker.MarkRecovered(ctx, userID); err != nil {
		log.Printf("mark abandoned cart recovered failed for user %d: %v", userID, err)
	}

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		log.Printf("clear cart after order %s failed: %v", order.OrderNumber, err)
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}

	s.sendOrderEmails(ctx, user, order)

	return order, nil
}

func buildOrder(userID int64, cart *domain.Cart, input PlaceOrderInput) *domain.Order {
	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: newOrderNumber(),
		Status:      domain.OrderStatusPending,

		BillingName:    input.BillingName,
		BillingEmail:   input.BillingEmail,
		BillingPhone:   input.BillingPhone,
		BillingAddress: input.BillingAddress,
		BillingCity:    input.BillingCity,
		BillingState:   input.BillingState,
		BillingZip:     input.BillingZip,
		BillingCountry: input.BillingCountry,

		ShippingName:    input.ShippingName,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		ShippingState:   input.ShippingState,
		ShippingZip:     input.ShippingZip,
		ShippingCountry: input.ShippingCountry,

		Subtotal:      cart.SubtotalWithoutTax(),
		Tax:           cart.Total().Sub(cart.SubtotalWithoutTax()),
		Total:         cart.Total(),
		PaymentMethod: input.PaymentMethod,
		CustomerNotes: input.CustomerNotes,
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			continue
		}
		productID := item.ProductID
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    &productID,
			ProductName:  item.Product.Name,
			ProductPrice: item.Product.Price,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal(),
		})
	}

	return order
}

func (s *CheckoutService) sendOrderEmails(ctx context.Context, user *domain.User, order *domain.Order) {
	data := mailer.OrderEmailData{Site: s.site, User: user, Order: order}

	html, text, err := s.templates.Render("order_confirmation", data)
	if err != nil {
		log.Printf("render order confirmation for %s: %v", order.OrderNumber, err)
	} else {
		msg := &mailer.Message{
			To:      []string{order.BillingEmail},
			Subject: fmt.Sprintf("Order Confirmation - %s", order.OrderNumber),
			Text:    text,
			HTML:    html,
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			log.Printf("send order confirmation to %s: %v", order.BillingEmail, err)
		}
	}

	if s.adminEmail == "" {
		return
	}
	html, text, err = s.templates.Render("admin_order_notification", data)
	if err != nil {
		log.Printf("render admin notification for %s: %v", order.OrderNumber, err)
		return
	}
	msg := &mailer.Message{
		To:      []string{s.adminEmail},
		Subject: fmt.Sprintf("New Order Received - %s", order.OrderNumber),
		Text:    text,
		HTML:    html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Printf("send admin notification to %s: %v", s.adminEmail, err)
	}
}

func newOrderNumber() string {
	const digits = "0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return "ORD" + string(b)
}

package http

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sameer7300/Oraagh/internal/cache"
	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/repository"
)

// Minimal in-memory stores for handler tests. Only the paths the
// handlers exercise are implemented with real behavior.

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

type stubCartStore struct {
	carts map[int64]*domain.Cart
	err   error
}

func (s *stubCartStore) GetCart(_ context.Context, userID int64) (*domain.Cart, error) {
	if s.err != nil {
		return nil, s.err
	}
	cart, ok := s.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (s *stubCartStore) GetOrCreateCart(_ context.Context, userID int64) (*domain.Cart, error) {
	return s.GetCart(context.Background(), userID)
}

func (s *stubCartStore) AddItem(_ context.Context, userID, productID int64, quantity int) error {
	return s.err
}

func (s *stubCartStore) UpdateItemQuantity(_ context.Context, _, itemID int64, _ int) error {
	if s.err != nil {
		return s.err
	}
	if itemID == 404 {
		return repository.ErrCartItemNotFound
	}
	return nil
}

func (s *stubCartStore) RemoveItem(_ context.Context, _, itemID int64) error {
	if s.err != nil {
		return s.err
	}
	if itemID == 404 {
		return repository.ErrCartItemNotFound
	}
	return nil
}

func (s *stubCartStore) ClearCart(_ context.Context, userID int64) error {
	delete(s.carts, userID)
	return s.err
}

func (s *stubCartStore) ListStaleCarts(context.Context, time.Time) ([]*domain.Cart, error) {
	return nil, nil
}

type stubAbandonedStore struct{}

func (stubAbandonedStore) GetUnrecovered(context.Context, int64) (*domain.AbandonedCart, error) {
	return nil, repository.ErrNoActiveRecord
}
func (stubAbandonedStore) Create(context.Context, *domain.AbandonedCart) error { return nil }
func (stubAbandonedStore) Update(context.Context, *domain.AbandonedCart) error { return nil }
func (stubAbandonedStore) ListPendingCartReminders(context.Context) ([]*domain.AbandonedCart, error) {
	return nil, nil
}
func (stubAbandonedStore) ListPendingCheckoutReminders(context.Context) ([]*domain.AbandonedCart, error) {
	return nil, nil
}
func (stubAbandonedStore) MarkCartReminderSent(context.Context, int64, time.Time) error { return nil }
func (stubAbandonedStore) MarkCheckoutReminderSent(context.Context, int64, time.Time) error {
	return nil
}
func (stubAbandonedStore) MarkRecovered(context.Context, int64, time.Time) error { return nil }

type stubCache struct{}

func (stubCache) Get(context.Context, int64) (*domain.Cart, error) {
	return nil, cache.ErrCacheMiss
}
func (stubCache) Set(context.Context, int64, *domain.Cart) error { return nil }
func (stubCache) Delete(context.Context, int64) error            { return nil }

type stubProductStore struct {
	products map[string]*domain.Product
	reviews  []*domain.Review
}

func (s *stubProductStore) ListProducts(context.Context, repository.ProductFilter) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubProductStore) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (s *stubProductStore) GetProductBySlug(_ context.Context, slug string) (*domain.Product, error) {
	p, ok := s.products[slug]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (s *stubProductStore) ProductExists(_ context.Context, id int64) (bool, error) {
	_, err := s.GetProductByID(context.Background(), id)
	return err == nil, nil
}

func (s *stubProductStore) ListCategories(context.Context) ([]*domain.Category, error) {
	return []*domain.Category{{ID: 1, Name: "Chess", Slug: "chess"}}, nil
}

func (s *stubProductStore) CreateReview(_ context.Context, review *domain.Review) error {
	review.ID = int64(len(s.reviews) + 1)
	s.reviews = append(s.reviews, review)
	return nil
}

func (s *stubProductStore) ListReviews(context.Context, int64) ([]*domain.Review, error) {
	return s.reviews, nil
}

func (s *stubProductStore) AverageRating(context.Context, int64) (float64, error) {
	if len(s.reviews) == 0 {
		return 0, nil
	}
	sum := 0
	for _, r := range s.reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(s.reviews)), nil
}

type stubMarketingStore struct {
	subscribed map[string]bool
	posts      map[string]*domain.Post
}

func (s *stubMarketingStore) CreateSubscriber(_ context.Context, email string) (*domain.Subscriber, error) {
	if s.subscribed[email] {
		return nil, repository.ErrAlreadySubscribed
	}
	if s.subscribed == nil {
		s.subscribed = map[string]bool{}
	}
	s.subscribed[email] = true
	return &domain.Subscriber{ID: int64(len(s.subscribed)), Email: email}, nil
}

func (s *stubMarketingStore) ListSubscriberEmails(context.Context) ([]string, error) {
	var out []string
	for email := range s.subscribed {
		out = append(out, email)
	}
	return out, nil
}

func (s *stubMarketingStore) ListPublishedPosts(context.Context, int, int) ([]*domain.Post, int, error) {
	var out []*domain.Post
	for _, p := range s.posts {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (s *stubMarketingStore) GetPostBySlug(_ context.Context, slug string) (*domain.Post, error) {
	p, ok := s.posts[slug]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return p, nil
}

func (s *stubMarketingStore) IncrementPostViews(context.Context, int64) error { return nil }

func (s *stubMarketingStore) ListDeliveryCharges(context.Context) ([]*domain.DeliveryCharge, error) {
	return nil, nil
}

type stubOrderStore struct {
	orders map[uuid.UUID]*domain.Order
}

func (s *stubOrderStore) CreateOrder(_ context.Context, order *domain.Order) error {
	if s.orders == nil {
		s.orders = map[uuid.UUID]*domain.Order{}
	}
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderStore) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (s *stubOrderStore) ListOrdersByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *stubOrderStore) UpdateOrderStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, ok := s.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (s *stubOrderStore) UpdateTracking(_ context.Context, id uuid.UUID, trackingNumber, courierName, courierContact, trackingURL string) error {
	order, ok := s.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.TrackingNumber = trackingNumber
	order.CourierName = courierName
	order.CourierContact = courierContact
	order.TrackingURL = trackingURL
	return nil
}

type stubUserStore struct{}

func (stubUserStore) GetUser(_ context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, Username: "user", Email: "user@example.com"}, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/sameer7300/Oraagh/internal/domain"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrNoActiveRecord    = errors.New("no unrecovered abandoned cart for user")
	ErrDuplicateOrder    = errors.New("order number already exists")
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type Repository struct {
	db *sql.DB
}

// CartStore is the cart persistence surface used by the cart service,
// the checkout service and the dispatcher's stale-cart sweep.
type CartStore interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	GetOrCreateCart(ctx context.Context, userID int64) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID int64, quantity int) error
	UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	ClearCart(ctx context.Context, userID int64) error
	ListStaleCarts(ctx context.Context, cutoff time.Time) ([]*domain.Cart, error)
}

type ProductStore interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ProductExists(ctx context.Context, id int64) (bool, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateReview(ctx context.Context, review *domain.Review) error
	ListReviews(ctx context.Context, productID int64) ([]*domain.Review, error)
	AverageRating(ctx context.Context, productID int64) (float64, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdateTracking(ctx context.Context, id uuid.UUID, trackingNumber, courierName, courierContact, trackingURL string) error
}

// AbandonedCartStore persists abandonment episodes. Reads and writes are
// plain read-modify-write per request; there is deliberately no atomic
// conditional update (a double-invoked dispatcher could race, accepted).
type AbandonedCartStore interface {
	GetUnrecovered(ctx context.Context, userID int64) (*domain.AbandonedCart, error)
	Create(ctx context.Context, rec *domain.AbandonedCart) error
	Update(ctx context.Context, rec *domain.AbandonedCart) error
	ListPendingCartReminders(ctx context.Context) ([]*domain.AbandonedCart, error)
	ListPendingCheckoutReminders(ctx context.Context) ([]*domain.AbandonedCart, error)
	MarkCartReminderSent(ctx context.Context, id int64, at time.Time) error
	MarkCheckoutReminderSent(ctx context.Context, id int64, at time.Time) error
	MarkRecovered(ctx context.Context, userID int64, at time.Time) error
}

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type MarketingStore interface {
	CreateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error)
	ListSubscriberEmails(ctx context.Context) ([]string, error)
	ListPublishedPosts(ctx context.Context, page, perPage int) ([]*domain.Post, int, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	IncrementPostViews(ctx context.Context, id int64) error
	ListDeliveryCharges(ctx context.Context) ([]*domain.DeliveryCharge, error)
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sameer7300/Oraagh/internal/domain"
	"github.com/sameer7300/Oraagh/internal/repository"
)

type mockAbandonedStore struct {
	m       sync.Mutex
	records map[int64]*domain.AbandonedCart
	nextID  int64
	err     error
	events  *[]string
}

func newMockAbandonedStore() *mockAbandonedStore {
	return &mockAbandonedStore{records: map[int64]*domain.AbandonedCart{}}
}

func (s *mockAbandonedStore) logEvent(e string) {
	if s.events != nil {
		*s.events = append(*s.events, e)
	}
}

func (s *mockAbandonedStore) GetUnrecovered(_ context.Context, userID int64) (*domain.AbandonedCart, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	rec, ok := s.records[userID]
	if !ok || rec.IsRecovered {
		return nil, repository.ErrNoActiveRecord
	}
	cp := *rec
	return &cp, nil
}

func (s *mockAbandonedStore) Create(_ context.Context, rec *domain.AbandonedCart) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.nextID++
	rec.ID = s.nextID
	cp := *rec
	s.records[rec.UserID] = &cp
	return nil
}

func (s *mockAbandonedStore) Update(_ context.Context, rec *domain.AbandonedCart) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *rec
	s.records[rec.UserID] = &cp
	return nil
}

func (s *mockAbandonedStore) ListPendingCartReminders(_ context.Context) ([]*domain.AbandonedCart, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.AbandonedCart
	for _, rec := range s.records {
		if rec.Stage == domain.StageCart && !rec.CartReminderSent && !rec.IsRecovered {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *mockAbandonedStore) ListPendingCheckoutReminders(_ context.Context) ([]*domain.AbandonedCart, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.AbandonedCart
	for _, rec := range s.records {
		if rec.Stage == domain.StageCheckout && !rec.CheckoutReminderSent && !rec.IsRecovered {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *mockAbandonedStore) MarkCartReminderSent(_ context.Context, id int64, at time.Time) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, rec := range s.records {
		if rec.ID == id {
			rec.CartReminderSent = true
			rec.CartReminderSentAt = &at
			return nil
		}
	}
	return repository.ErrNoActiveRecord
}

func (s *mockAbandonedStore) MarkCheckoutReminderSent(_ context.Context, id int64, at time.Time) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, rec := range s.records {
		if rec.ID == id {
			rec.CheckoutReminderSent = true
			rec.CheckoutReminderSentAt = &at
			return nil
		}
	}
	return repository.ErrNoActiveRecord
}

func (s *mockAbandonedStore) MarkRecovered(_ context.Context, userID int64, at time.Time) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.logEvent("mark_recovered")
	if rec, ok := s.records[userID]; ok && !rec.IsRecovered {
		rec.IsRecovered = true
		rec.RecoveredAt = &at
	}
	return nil
}

func (s *mockAbandonedStore) get(userID int64) *domain.AbandonedCart {
	s.m.Lock()
	defer s.m.Unlock()
	return s.records[userID]
}

func testCart(userID int64) *domain.Cart {
	return &domain.Cart{
		ID:     1,
		UserID: userID,
		Items: []domain.CartItem{
			{
				ID:        10,
				ProductID: 100,
				Quantity:  2,
				Product: &domain.Product{
					ID:         100,
					Name:       "Walnut Chess Board",
					Price:      decimal.NewFromInt(900),
					TaxPercent: decimal.Zero,
					ImageURL:   "https://cdn.example.com/chess.jpg",
				},
			},
			{
				ID:        11,
				ProductID: 101,
				Quantity:  1,
				Product: &domain.Product{
					ID:         101,
					Name:       "Brass Compass",
					Price:      decimal.NewFromInt(200),
					TaxPercent: decimal.Zero,
				},
			},
		},
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now(),
	}
}

func TestRecordCartActivity_CreatesRecord(t *testing.T) {
	store := newMockAbandonedStore()
	tracker := NewTracker(store)

	err := tracker.RecordCartActivity(context.Background(), 7, testCart(7))
	require.NoError(t, err)

	rec := store.get(7)
	require.NotNil(t, rec)
	assert.Equal(t, domain.StageCart, rec.Stage)
	assert.Len(t, rec.Snapshot, 2)
	assert.True(t, rec.CartTotal.Equal(decimal.NewFromInt(2000)))
	assert.False(t, rec.CartReminderSent)
}

func TestRecordCartActivity_EmptyCartIsNoOp(t *testing.T) {
	store := newMockAbandonedStore()
	tracker := NewTracker(store)

	err := tracker.RecordCartActivity(context.Background(), 7, &domain.Cart{UserID: 7})
	require.NoError(t, err)
	assert.Nil(t, store.get(7))
}

func TestRecordCartActivity_ResetsStageKeepsReminderFlag(t *testing.T) {
	store := newMockAbandonedStore()
	tracker := NewTracker(store)
	ctx := context.Background()
	cart := testCart(7)

	require.NoError(t, tracker.RecordCheckoutStart(ctx, 7, cart))
	require.NoError(t, store.MarkCartReminderSent(ctx, store.get(7).ID, time.Now()))

	// user returns to the cart page
	require.NoError(t, tracker.RecordCartActivity(ctx, 7, cart))

	rec := store.get(7)
	assert.Equal(t, domain.StageCart, rec.Stage)
	assert.True(t, rec.CartReminderSent, "stage reset must not re-arm the cart reminder")
	assert.NotNil(t, rec.CheckoutStartedAt)
}

func TestRecordCheckoutStart_SetsTimestampOnce(t *testing.T) {
	store := newMockAbandonedStore()
	tracker := NewTracker(store)
	ctx := context.Background()
	cart := testCart(7)

	require.NoError(t, tracker.RecordCheckoutStart(ctx, 7, cart))
	first := store.get(7).CheckoutStartedAt
	require.NotNil(t, first)

	// reload of the checkout page keeps the original timestamp
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tracker.RecordCheckoutStart(ctx, 7, cart))

	second := store.get(7).CheckoutStartedAt
	require.NotNil(t, second)
	assert.True(t, first.Equal(*second))
}

func TestMarkRecovered_TerminatesEpisode(t *testing.T) {
	store := newMockAbandonedStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	require.NoError(t, tracker.RecordCartActivity(ctx, 7, testCart(7)))
	require.NoError(t, tracker.MarkRecovered(ctx, 7))

	rec := store.get(7)
	assert.True(t, rec.IsRecovered)
	assert.NotNil(t, rec.RecoveredAt)

	// a new cart opens a fresh episode
	require.NoError(t, tracker.RecordCartActivity(ctx, 7, testCart(7)))
	assert.False(t, store.get(7).IsRecovered)
}

func TestBuildSnapshot_SkipsMissingProducts(t *testing.T) {
	cart := testCart(7)
	cart.Items = append(cart.Items, domain.CartItem{ID: 12, ProductID: 999, Quantity: 3})

	snapshot, total := BuildSnapshot(cart)
	assert.Len(t, snapshot, 2)
	assert.True(t, total.Equal(decimal.NewFromInt(2000)))
}

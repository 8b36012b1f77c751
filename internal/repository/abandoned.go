package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sameer7300/Oraagh/internal/domain"
)

const abandonedColumns = `id, user_id, stage, cart_items_snapshot, cart_total,
	cart_created_at, last_activity_at, checkout_started_at,
	cart_reminder_sent, cart_reminder_sent_at,
	checkout_reminder_sent, checkout_reminder_sent_at,
	is_recovered, recovered_at, created_at, updated_at`

func (r *Repository) GetUnrecovered(ctx context.Context, userID int64) (*domain.AbandonedCart, error) {
	query := `SELECT ` + abandonedColumns + ` FROM abandoned_carts
	          WHERE user_id = $1 AND NOT is_recovered`
	rec, err := scanAbandoned(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveRecord
	}
	if err != nil {
		return nil, fmt.Errorf("query unrecovered abandoned cart: %w", err)
	}
	return rec, nil
}

func (r *Repository) Create(ctx context.Context, rec *domain.AbandonedCart) error {
	snapshotJSON, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}

	query := `INSERT INTO abandoned_carts
	            (user_id, stage, cart_items_snapshot, cart_total, cart_created_at, last_activity_at, checkout_started_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id, created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		rec.UserID,
		rec.Stage,
		snapshotJSON,
		rec.CartTotal,
		rec.CartCreatedAt,
		rec.LastActivityAt,
		rec.CheckoutStartedAt,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert abandoned cart: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, rec *domain.AbandonedCart) error {
	snapshotJSON, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}

	query := `UPDATE abandoned_carts SET
	            stage = $1,
	            cart_items_snapshot = $2,
	            cart_total = $3,
	            last_activity_at = $4,
	            checkout_started_at = $5,
	            updated_at = NOW()
	          WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query,
		rec.Stage,
		snapshotJSON,
		rec.CartTotal,
		rec.LastActivityAt,
		rec.CheckoutStartedAt,
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("update abandoned cart: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNoActiveRecord
	}
	return nil
}

func (r *Repository) ListPendingCartReminders(ctx context.Context) ([]*domain.AbandonedCart, error) {
	query := `SELECT ` + abandonedColumns + ` FROM abandoned_carts
	          WHERE stage = 'cart' AND NOT cart_reminder_sent AND NOT is_recovered
	          ORDER BY last_activity_at`
	return r.listAbandoned(ctx, query)
}

func (r *Repository) ListPendingCheckoutReminders(ctx context.Context) ([]*domain.AbandonedCart, error) {
	query := `SELECT ` + abandonedColumns + ` FROM abandoned_carts
	          WHERE stage = 'checkout' AND NOT checkout_reminder_sent AND NOT is_recovered
	          ORDER BY checkout_started_at`
	return r.listAbandoned(ctx, query)
}

func (r *Repository) MarkCartReminderSent(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE abandoned_carts SET cart_reminder_sent = TRUE, cart_reminder_sent_at = $1, updated_at = NOW()
		 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("mark cart reminder sent: %w", err)
	}
	return nil
}

func (r *Repository) MarkCheckoutReminderSent(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE abandoned_carts SET checkout_reminder_sent = TRUE, checkout_reminder_sent_at = $1, updated_at = NOW()
		 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("mark checkout reminder sent: %w", err)
	}
	return nil
}

// MarkRecovered terminates every unrecovered episode for the user.
func (r *Repository) MarkRecovered(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE abandoned_carts SET is_recovered = TRUE, recovered_at = $1, updated_at = NOW()
		 WHERE user_id = $2 AND NOT is_recovered`, at, userID)
	if err != nil {
		return fmt.Errorf("mark abandoned cart recovered: %w", err)
	}
	return nil
}

func (r *Repository) listAbandoned(ctx context.Context, query string, args ...any) ([]*domain.AbandonedCart, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query abandoned carts: %w", err)
	}
	defer rows.Close()

	var records []*domain.AbandonedCart
	for rows.Next() {
		rec, err := scanAbandoned(rows)
		if err != nil {
			return nil, fmt.Errorf("scan abandoned cart: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return records, nil
}

func scanAbandoned(row interface{ Scan(...any) error }) (*domain.AbandonedCart, error) {
	var rec domain.AbandonedCart
	var snapshotJSON []byte
	var checkoutStartedAt, cartSentAt, checkoutSentAt, recoveredAt sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Stage,
		&snapshotJSON,
		&rec.CartTotal,
		&rec.CartCreatedAt,
		&rec.LastActivityAt,
		&checkoutStartedAt,
		&rec.CartReminderSent,
		&cartSentAt,
		&rec.CheckoutReminderSent,
		&checkoutSentAt,
		&rec.IsRecovered,
		&recoveredAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(snapshotJSON, &rec.Snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal cart snapshot: %w", err)
	}
	if checkoutStartedAt.Valid {
		rec.CheckoutStartedAt = &checkoutStartedAt.Time
	}
	if cartSentAt.Valid {
		rec.CartReminderSentAt = &cartSentAt.Time
	}
	if checkoutSentAt.Valid {
		rec.CheckoutReminderSentAt = &checkoutSentAt.Time
	}
	if recoveredAt.Valid {
		rec.RecoveredAt = &recoveredAt.Time
	}
	return &rec, nil
}

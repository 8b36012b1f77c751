package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/sameer7300/Oraagh/internal/domain"
)

func (r *Repository) CreateSubscriber(ctx context.Context, email string) (*domain.Subscriber, error) {
	var sub domain.Subscriber
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO subscribers (email) VALUES ($1) RETURNING id, email, created_at`,
		email,
	).Scan(&sub.ID, &sub.Email, &sub.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("insert subscriber: %w", err)
	}
	return &sub, nil
}

func (r *Repository) ListSubscriberEmails(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT email FROM subscribers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return emails, nil
}

func (r *Repository) ListPublishedPosts(ctx context.Context, page, perPage int) ([]*domain.Post, int, error) {
	if perPage <= 0 {
		perPage = 5
	}
	if page <= 0 {
		page = 1
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE status = 'published'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `SELECT id, title, slug, body, status, views, created_at, updated_at
	          FROM posts WHERE status = 'published'
	          ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.Views, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}
	return posts, total, nil
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	query := `SELECT id, title, slug, body, status, views, created_at, updated_at
	          FROM posts WHERE slug = $1 AND status = 'published'`
	var p domain.Post
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.Views, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query post: %w", err)
	}
	return &p, nil
}

func (r *Repository) IncrementPostViews(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}

func (r *Repository) ListDeliveryCharges(ctx context.Context) ([]*domain.DeliveryCharge, error) {
	query := `SELECT id, label, charge, is_default, is_active
	          FROM delivery_charges WHERE is_active ORDER BY charge`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query delivery charges: %w", err)
	}
	defer rows.Close()

	var charges []*domain.DeliveryCharge
	for rows.Next() {
		var dc domain.DeliveryCharge
		if err := rows.Scan(&dc.ID, &dc.Label, &dc.Charge, &dc.IsDefault, &dc.IsActive); err != nil {
			return nil, fmt.Errorf("scan delivery charge: %w", err)
		}
		charges = append(charges, &dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return charges, nil
}

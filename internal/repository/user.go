package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sameer7300/Oraagh/internal/domain"
)

func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, username, email, first_name, last_name, created_at
	          FROM users WHERE id = $1`
	var u domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

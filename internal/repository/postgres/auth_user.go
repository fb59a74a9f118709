package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
)

func (r *authUserRepository) Create(ctx context.Context, user *model.AuthUser) error {
	query := `
		INSERT INTO auth_users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create auth user: %w", err)
	}
	return nil
}

func (r *authUserRepository) GetByEmail(ctx context.Context, email string) (*model.AuthUser, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM auth_users
		WHERE lower(email) = lower($1)
	`
	var user model.AuthUser
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auth user %s: %w", email, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth user: %w", err)
	}
	return &user, nil
}

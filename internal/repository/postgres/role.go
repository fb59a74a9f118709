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

func (r *roleRepository) Assign(ctx context.Context, userID uuid.UUID, role model.UserRole) error {
	query := `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, role, time.Now())
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}
	return nil
}

func (r *roleRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.UserRole, error) {
	query := `
		SELECT role
		FROM user_roles
		WHERE user_id = $1
	`
	var role model.UserRole
	err := r.db.GetContext(ctx, &role, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("role for user %s: %w", userID, repository.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

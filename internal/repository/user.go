package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cardcheck_api_gateway/internal/model"
)

type UserRepository interface {
	GetByAPIToken(ctx context.Context, token string) (*model.User, error)
}

type userRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// GetByAPIToken resolves an API token to its user row. Returns nil, nil
// when the token is unknown.
func (r *userRepository) GetByAPIToken(ctx context.Context, token string) (*model.User, error) {
	query := `
		SELECT id, api_token, status, credits, telegram_id, created_at
		FROM users
		WHERE api_token = $1
	`

	var user model.User
	err := r.db.QueryRow(ctx, query, token).
		Scan(&user.ID, &user.APIToken, &user.Status, &user.Credits, &user.TelegramID, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("failed to get user by api token", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by api token: %w", err)
	}

	return &user, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cardcheck_api_gateway/internal/model"
)

type CheckLogRepository interface {
	Insert(ctx context.Context, log *model.CheckLog) error
	GetRecentByUser(ctx context.Context, userID string, limit int32) ([]*model.CheckLog, error)
}

type checkLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCheckLogRepository(db *pgxpool.Pool, logger *zap.Logger) CheckLogRepository {
	return &checkLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *checkLogRepository) Insert(ctx context.Context, log *model.CheckLog) error {
	query := `
		INSERT INTO check_logs (id, user_id, masked_card, verdict, message, amount, gateway, raw_response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		log.ID, log.UserID, log.MaskedCard, log.Verdict, log.Message,
		log.Amount, log.Gateway, log.RawResponse, log.CreatedAt)
	if err != nil {
		r.logger.Error("failed to insert check log", zap.Error(err), zap.String("check_id", log.ID))
		return fmt.Errorf("failed to insert check log: %w", err)
	}

	return nil
}

func (r *checkLogRepository) GetRecentByUser(ctx context.Context, userID string, limit int32) ([]*model.CheckLog, error) {
	query := `
		SELECT id, user_id, masked_card, verdict, message, amount, gateway, created_at
		FROM check_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("failed to get check logs", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get check logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.CheckLog
	for rows.Next() {
		var l model.CheckLog
		err := rows.Scan(&l.ID, &l.UserID, &l.MaskedCard, &l.Verdict, &l.Message, &l.Amount, &l.Gateway, &l.CreatedAt)
		if err != nil {
			r.logger.Error("failed to scan check log", zap.Error(err))
			continue
		}
		logs = append(logs, &l)
	}

	return logs, nil
}

package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"cardcheck_api_gateway/internal/model"
)

type NATSClient interface {
	PublishCheckCompleted(ctx context.Context, log *model.CheckLog) error
	SubscribeToCheckCompleted(ctx context.Context, handler func(*model.CheckLog)) error
	Close()
}

type natsClient struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewNATSClient(url string, logger *zap.Logger) (NATSClient, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("connected to NATS", zap.String("url", url))
	return &natsClient{
		conn:   conn,
		logger: logger,
	}, nil
}

// CheckCompletedMessage mirrors a finished check onto the stream the
// dashboard's realtime layer consumes. Card numbers travel masked.
type CheckCompletedMessage struct {
	CheckID    string        `json:"check_id"`
	UserID     string        `json:"user_id"`
	Verdict    model.Verdict `json:"verdict"`
	MaskedCard string        `json:"masked_card"`
	Amount     string        `json:"amount"`
	Gateway    string        `json:"gateway"`
}

func (c *natsClient) PublishCheckCompleted(ctx context.Context, log *model.CheckLog) error {
	msg := CheckCompletedMessage{
		CheckID:    log.ID,
		UserID:     log.UserID,
		Verdict:    log.Verdict,
		MaskedCard: log.MaskedCard,
		Amount:     log.Amount,
		Gateway:    log.Gateway,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal check completed message", zap.Error(err))
		return fmt.Errorf("failed to marshal check completed message: %w", err)
	}

	err = c.conn.Publish("check.completed", data)
	if err != nil {
		c.logger.Error("failed to publish check completed message", zap.Error(err), zap.String("check_id", log.ID))
		return fmt.Errorf("failed to publish check completed message: %w", err)
	}

	c.logger.Info("check completed message published", zap.String("check_id", log.ID))
	return nil
}

func (c *natsClient) SubscribeToCheckCompleted(ctx context.Context, handler func(*model.CheckLog)) error {
	_, err := c.conn.Subscribe("check.completed", func(msg *nats.Msg) {
		var completed CheckCompletedMessage
		if err := json.Unmarshal(msg.Data, &completed); err != nil {
			c.logger.Error("failed to unmarshal check completed message", zap.Error(err))
			return
		}

		log := &model.CheckLog{
			ID:         completed.CheckID,
			UserID:     completed.UserID,
			Verdict:    completed.Verdict,
			MaskedCard: completed.MaskedCard,
			Amount:     completed.Amount,
			Gateway:    completed.Gateway,
		}

		handler(log)
		c.logger.Info("check completed message processed", zap.String("check_id", completed.CheckID), zap.String("verdict", string(completed.Verdict)))
	})

	if err != nil {
		c.logger.Error("failed to subscribe to check completed", zap.Error(err))
		return fmt.Errorf("failed to subscribe to check completed: %w", err)
	}

	c.logger.Info("subscribed to check completed messages")
	return nil
}

func (c *natsClient) Close() {
	if c.conn != nil {
		c.conn.Close()
		c.logger.Info("NATS connection closed")
	}
}

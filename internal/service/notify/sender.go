package notify

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/metrics"
	"linkbio/internal/model"
	"linkbio/internal/queue"
	"linkbio/internal/telegram"
)

// Sender hands one message to the delivery channel.
type Sender interface {
	Send(ctx context.Context, msg model.Message) error
}

// queueSender publishes messages for the relay consumer instead of calling
// the bot API inline.
type queueSender struct {
	pub        queue.Publisher
	routingKey string
}

func (q *queueSender) Send(ctx context.Context, msg model.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := q.pub.Publish(ctx, payload, q.routingKey); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	metrics.QueueMessagesTotal.WithLabelValues("published").Inc()
	return nil
}

func NewSender(cfg *config.Config, client *telegram.Client, publisher queue.Publisher, logger *zap.Logger) Sender {
	if cfg.RabbitMQURL == "" {
		return client
	}
	logger.Info("notifications relayed through rabbitmq",
		zap.String("exchange", cfg.RabbitExchange),
		zap.String("routing_key", cfg.RabbitRoutingKey),
	)
	return &queueSender{pub: publisher, routingKey: cfg.RabbitRoutingKey}
}

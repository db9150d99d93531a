package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/metrics"
	"linkbio/internal/model"
	"linkbio/internal/queue"
	"linkbio/internal/service/notify"
	"linkbio/internal/telegram"
	"linkbio/internal/telemetry"
)

// maxRetryWait bounds how long a flood-limited message holds the channel
// before it is given up to the fallback log.
const maxRetryWait = 30 * time.Second

type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

type deliverer interface {
	Send(ctx context.Context, msg model.Message) error
}

// Consumer drains the relay queue into the bot API.
type Consumer struct {
	url         string
	client      deliverer
	fallback    *notify.Fallback
	logger      *zap.Logger
	exchange    string
	queue       string
	routingKey  string
	consumerTag string
	sendTimeout time.Duration
}

func NewConsumer(cfg *config.Config, client *telegram.Client, fallback *notify.Fallback, logger *zap.Logger) queue.Consumer {
	if cfg.RabbitMQURL == "" {
		return &noopConsumer{}
	}
	return &Consumer{
		url:         cfg.RabbitMQURL,
		client:      client,
		fallback:    fallback,
		logger:      logger,
		exchange:    cfg.RabbitExchange,
		queue:       cfg.RabbitQueue,
		routingKey:  cfg.RabbitRoutingKey,
		consumerTag: cfg.RabbitConsumerTag,
		sendTimeout: 2 * cfg.TelegramTimeout,
	}
}

func (r *Consumer) Start(ctx context.Context) error {
	ctx, span := telemetry.Tracer("rabbitmq").Start(ctx, "rabbitmq.consume_loop")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.destination_kind", "exchange"),
		attribute.String("messaging.rabbitmq.routing_key", r.routingKey),
	)
	defer span.End()

	conn, err := amqp.Dial(r.url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "channel failed")
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// one in flight keeps bot API ordering and rate limits predictable
	if err := ch.Qos(1, 0, false); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "qos failed")
		return fmt.Errorf("rabbitmq qos: %w", err)
	}

	if err := declareExchange(ch, r.exchange); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exchange declare failed")
		return err
	}

	queueInfo, err := ch.QueueDeclare(
		r.queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue declare failed")
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	if err := ch.QueueBind(
		queueInfo.Name,
		r.routingKey,
		r.exchange,
		false,
		nil,
	); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "queue bind failed")
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}

	deliveries, err := ch.Consume(
		queueInfo.Name,
		r.consumerTag,
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "consume failed")
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	r.logger.Info("RabbitMQ relay consumer started",
		zap.String("exchange", r.exchange),
		zap.String("queue", queueInfo.Name),
		zap.String("routing_key", r.routingKey),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-deliveries:
			if !ok {
				span.SetStatus(codes.Error, "deliveries closed")
				return errors.New("rabbitmq deliveries closed")
			}
			if err := r.handleMessage(ctx, msg); err != nil {
				span.RecordError(err)
				return err
			}
		}
	}
}

func (r *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, amqpHeaderCarrier(msg.Headers))
	ctx, span := telemetry.Tracer("rabbitmq").Start(ctx, "rabbitmq.handle_message")
	span.SetAttributes(
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination", r.exchange),
		attribute.String("messaging.rabbitmq.routing_key", msg.RoutingKey),
		attribute.Bool("messaging.rabbitmq.redelivered", msg.Redelivered),
	)
	defer span.End()

	var m model.Message
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid json")
		r.logger.Error("rabbitmq invalid json", zap.Error(err))
		metrics.QueueMessagesTotal.WithLabelValues("dropped").Inc()
		return msg.Ack(false)
	}
	if strings.TrimSpace(m.Text) == "" {
		span.SetStatus(codes.Error, "empty message")
		r.logger.Warn("rabbitmq empty message dropped")
		metrics.QueueMessagesTotal.WithLabelValues("dropped").Inc()
		return msg.Ack(false)
	}

	timeout := r.sendTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	sendCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := r.client.Send(sendCtx, m)
	if err == nil {
		metrics.QueueMessagesTotal.WithLabelValues("delivered").Inc()
		return msg.Ack(false)
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "delivery failed")
	wait := retryAfter(err)
	if telegram.IsTransient(err) && !msg.Redelivered && wait <= maxRetryWait {
		if wait > 0 {
			r.logger.Warn("rabbitmq delivery rate limited, waiting", zap.Duration("retry_after", wait))
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
		r.logger.Warn("rabbitmq delivery failed, requeueing", zap.Error(err))
		metrics.QueueMessagesTotal.WithLabelValues("requeued").Inc()
		if nackErr := msg.Nack(false, true); nackErr != nil {
			r.logger.Error("rabbitmq nack failed", zap.Error(nackErr))
		}
		return nil
	}

	r.logger.Error("rabbitmq delivery failed, writing fallback", zap.Error(err))
	metrics.QueueMessagesTotal.WithLabelValues("dropped").Inc()
	if r.fallback != nil {
		r.fallback.Write("relay_failed", m)
	}
	return msg.Ack(false)
}

func retryAfter(err error) time.Duration {
	var apiErr *telegram.APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}

//go:build integration

package rabbitmq

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/model"
)

func TestPublisherIntegration(t *testing.T) {
	ctx := context.Background()
	amqpURL, cleanup := setupRabbitMQContainer(t, ctx)
	defer cleanup()

	cfg := &config.Config{
		RabbitMQURL:       amqpURL,
		RabbitExchange:    "notifications",
		RabbitQueue:       "notifications.telegram",
		RabbitRoutingKey:  "notification.telegram",
		RabbitConsumerTag: "telegram-relay",
	}

	publisher := NewPublisher(cfg, zap.NewNop())

	conn, err := amqp.Dial(amqpURL)
	require.NoError(t, err)
	defer conn.Close()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	err = ch.ExchangeDeclare(cfg.RabbitExchange, "topic", true, false, false, false, nil)
	require.NoError(t, err)
	_, err = ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, nil)
	require.NoError(t, err)
	err = ch.QueueBind(cfg.RabbitQueue, cfg.RabbitRoutingKey, cfg.RabbitExchange, false, nil)
	require.NoError(t, err)

	deliveries, err := ch.Consume(cfg.RabbitQueue, "publisher-test", true, false, false, false, nil)
	require.NoError(t, err)

	want := model.Message{Text: "*report*", ParseMode: model.ParseModeMarkdown}
	body, err := json.Marshal(want)
	require.NoError(t, err)

	err = publisher.Publish(ctx, body, cfg.RabbitRoutingKey)
	require.NoError(t, err)

	select {
	case msg := <-deliveries:
		var got model.Message
		require.NoError(t, json.Unmarshal(msg.Body, &got))
		require.Equal(t, want, got)
		require.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for published message")
	}
}

// setupRabbitMQContainer is defined in testhelpers_integration.go

package queue

import "context"

// Consumer drains relayed notifications until ctx is done.
type Consumer interface {
	Start(ctx context.Context) error
}

// Publisher hands a serialized notification to the relay.
type Publisher interface {
	Publish(ctx context.Context, payload []byte, routingKey string) error
}

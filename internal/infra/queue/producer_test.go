package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msgs     []amqp.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange = exchange
	f.key = key
	f.msgs = append(f.msgs, msg)
	return nil
}

// TestPublishCompleted - payload is published persistent on the chatbot exchange
func TestPublishCompleted(t *testing.T) {
	ch := &fakeChannel{}
	producer := NewProducer(ch)

	payload := CompletedPayload{
		Category:    "prospect",
		RowID:       1,
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Contact:     "+1-212-555-0100",
		Answers:     map[string]string{"rating": "Outstanding"},
		CompletedAt: time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, producer.PublishCompleted(context.Background(), payload))
	require.Len(t, ch.msgs, 1)

	msg := ch.msgs[0]
	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, RoutingKey, ch.key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var received CompletedPayload
	require.NoError(t, json.Unmarshal(msg.Body, &received))
	assert.Equal(t, int64(1), received.RowID)
	assert.Equal(t, "Ada Lovelace", received.Name)
	assert.Equal(t, "Outstanding", received.Answers["rating"])
}

// TestPublishCompletedBrokerError - broker errors are wrapped for the caller
func TestPublishCompletedBrokerError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	producer := NewProducer(ch)

	err := producer.PublishCompleted(context.Background(), CompletedPayload{RowID: 2})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

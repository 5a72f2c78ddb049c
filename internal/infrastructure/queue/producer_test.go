package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func TestProducer_PublishNotification(t *testing.T) {
	ch := &fakeChannel{}
	leadID := "lead-1"
	n := &entity.Notification{
		ID: "n1", UserID: "u1", Type: entity.NotificationAlert, Priority: entity.NotificationHigh,
		Title: "Acción vencida", Message: "m", ActionURL: "/leads/lead-1", LeadID: &leadID,
		CreatedAt: time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewProducer(ch).PublishNotification(context.Background(), n))

	assert.Equal(t, ExchangeName, ch.exchange)
	assert.Equal(t, RoutingKey, ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var p NotificationPayload
	require.NoError(t, json.Unmarshal(ch.msg.Body, &p))
	assert.Equal(t, "n1", p.NotificationID)
	assert.Equal(t, "HIGH", p.Priority)
	assert.Equal(t, "lead-1", p.LeadID)
	assert.Empty(t, p.CompanyID)
}

func TestProducer_WrapsChannelError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("closed")}
	err := NewProducer(ch).PublishNotification(context.Background(), &entity.Notification{ID: "n1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

type fakeAck struct {
	acked, nacked, requeued bool
}

func (f *fakeAck) Ack(uint64, bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked, f.requeued = true, requeue
	return nil
}
func (f *fakeAck) Reject(uint64, bool) error { return nil }

type fakeHandler struct {
	got []NotificationPayload
	err error
}

func (f *fakeHandler) Deliver(_ context.Context, p NotificationPayload) error {
	f.got = append(f.got, p)
	return f.err
}

func TestWorker_Handle(t *testing.T) {
	body, _ := json.Marshal(NotificationPayload{NotificationID: "n1", Priority: "HIGH"})

	t.Run("entrega correcta hace ack", func(t *testing.T) {
		h := &fakeHandler{}
		w := NewWorker(nil, h, zerolog.Nop())
		ack := &fakeAck{}
		w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})
		assert.True(t, ack.acked)
		require.Len(t, h.got, 1)
		assert.Equal(t, "n1", h.got[0].NotificationID)
	})

	t.Run("json inválido va a DLQ", func(t *testing.T) {
		h := &fakeHandler{}
		w := NewWorker(nil, h, zerolog.Nop())
		ack := &fakeAck{}
		w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{")})
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
		assert.Empty(t, h.got)
	})

	t.Run("fallo de entrega hace nack sin requeue", func(t *testing.T) {
		h := &fakeHandler{err: errors.New("smtp")}
		w := NewWorker(nil, h, zerolog.Nop())
		ack := &fakeAck{}
		w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeued)
	})
}

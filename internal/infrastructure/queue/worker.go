package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Prospectos-api/internal/infrastructure/metrics"
)

// DeliveryHandler entrega una notificación por un canal externo (email, etc).
type DeliveryHandler interface {
	Deliver(ctx context.Context, payload NotificationPayload) error
}

// Worker consume la cola de entrega con ack manual.
type Worker struct {
	ch      *amqp.Channel
	handler DeliveryHandler
	log     zerolog.Logger
}

// NewWorker construye el consumidor.
func NewWorker(ch *amqp.Channel, handler DeliveryHandler, log zerolog.Logger) *Worker {
	return &Worker{ch: ch, handler: handler, log: log.With().Str("component", "delivery_worker").Logger()}
}

// Start consume hasta que ctx se cancele o el canal se cierre.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	msgs, err := w.ch.Consume(
		QueueName,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("registrar consumidor: %w", err)
	}
	w.log.Info().Str("queue", QueueName).Msg("worker de entrega escuchando")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de entregas cerrado")
			}
			w.handle(ctx, d)
		}
	}
}

// handle procesa un mensaje: JSON inválido o fallo de entrega van a la DLQ sin requeue.
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload NotificationPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.log.Error().Err(err).Msg("mensaje inválido")
		metrics.RecordDelivery("queue", "invalid")
		_ = d.Nack(false, false)
		return
	}
	if err := w.handler.Deliver(ctx, payload); err != nil {
		w.log.Error().Err(err).Str("notification_id", payload.NotificationID).Msg("falló la entrega")
		metrics.RecordDelivery("queue", "failed")
		_ = d.Nack(false, false)
		return
	}
	metrics.RecordDelivery("queue", "ok")
	_ = d.Ack(false)
}

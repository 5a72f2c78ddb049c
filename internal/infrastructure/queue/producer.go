package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Prospectos-api/internal/application/notifications"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

var _ notifications.Publisher = (*Producer)(nil)

// NotificationPayload mensaje publicado por cada notificación persistida.
type NotificationPayload struct {
	NotificationID string    `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Priority       string    `json:"priority"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	ActionURL      string    `json:"action_url,omitempty"`
	LeadID         string    `json:"lead_id,omitempty"`
	CompanyID      string    `json:"company_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PayloadFromNotification arma el mensaje a partir de la entidad.
func PayloadFromNotification(n *entity.Notification) NotificationPayload {
	p := NotificationPayload{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           string(n.Type),
		Priority:       string(n.Priority),
		Title:          n.Title,
		Message:        n.Message,
		ActionURL:      n.ActionURL,
		CreatedAt:      n.CreatedAt,
	}
	if n.LeadID != nil {
		p.LeadID = *n.LeadID
	}
	if n.CompanyID != nil {
		p.CompanyID = *n.CompanyID
	}
	return p
}

// channelPublisher lo implementa *amqp.Channel.
type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer publica notificaciones en el exchange de entrega.
type Producer struct {
	ch channelPublisher
}

// NewProducer construye el productor sobre un canal abierto.
func NewProducer(ch channelPublisher) *Producer {
	return &Producer{ch: ch}
}

// PublishNotification serializa y publica como mensaje persistente.
func (p *Producer) PublishNotification(ctx context.Context, n *entity.Notification) error {
	body, err := json.Marshal(PayloadFromNotification(n))
	if err != nil {
		return fmt.Errorf("serializar notificación: %w", err)
	}
	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    n.ID,
			Timestamp:    n.CreatedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publicar en RabbitMQ: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// CreateIfAbsent inserta la notificación salvo que exista otra con el mismo
	// (user_id, lead_id, type, title) creada desde `since`. Devuelve false si se suprimió.
	CreateIfAbsent(ctx context.Context, n *entity.Notification, since time.Time) (bool, error)
	// ListByUser ordena por created_at DESC.
	ListByUser(ctx context.Context, userID string, f entity.NotificationFilter, limit, offset int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead devuelve domain.ErrNotFound si el id no existe o no pertenece a userID.
	MarkRead(ctx context.Context, id, userID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
}

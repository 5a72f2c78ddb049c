package notifications

import (
	"context"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// Publisher entrega una notificación ya persistida al canal de despacho (cola).
type Publisher interface {
	PublishNotification(ctx context.Context, n *entity.Notification) error
}

// SweepThrottle limita la frecuencia de barridos por usuario.
// Acquire devuelve false si ya hubo un barrido dentro de la ventana.
type SweepThrottle interface {
	Acquire(ctx context.Context, userID string) (bool, error)
}

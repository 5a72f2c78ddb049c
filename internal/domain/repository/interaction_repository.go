package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// InteractionFilter filtros del listado de interacciones.
type InteractionFilter struct {
	LeadID    string
	CompanyID string
	ContactID string
	Type      entity.InteractionType
	// VisibleTo restringe a leads asignados o empresas gestionadas por ese usuario.
	VisibleTo string
}

// InteractionRepository define el puerto de persistencia para Interaction.
type InteractionRepository interface {
	Create(ctx context.Context, it *entity.Interaction) error
	GetByID(ctx context.Context, id string) (*entity.Interaction, error)
	GetDetail(ctx context.Context, id string) (*entity.InteractionDetail, error)
	// List ordena por created_at DESC e incluye contacto y autor.
	List(ctx context.Context, f InteractionFilter, limit, offset int) ([]*entity.InteractionDetail, error)
	// UpdateFollowUp persiste solo outcome y los campos de próxima acción.
	UpdateFollowUp(ctx context.Context, it *entity.Interaction) error
	// MarkActionCompleted es idempotente; devuelve domain.ErrNotFound si el id no existe.
	MarkActionCompleted(ctx context.Context, id string, at time.Time) error
	// ListPendingActions interacciones del lead con próxima acción pendiente y vencida antes de `before`.
	ListPendingActions(ctx context.Context, leadID string, before time.Time) ([]*entity.Interaction, error)
	ReparentToCompany(ctx context.Context, leadID, companyID string) (int64, error)
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// LeadFilter filtros combinables del listado de leads. Campos vacíos no filtran.
type LeadFilter struct {
	Status     entity.LeadStatus
	Priority   entity.LeadPriority
	AssignedTo string
	Source     entity.LeadSource
	Search     string // coincidencia parcial sin distinguir mayúsculas sobre company_name
}

// LeadRepository define el puerto de persistencia para Lead (DIP).
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Lead, error)
	// GetForUpdate igual que GetByID pero bloquea la fila (SELECT ... FOR UPDATE). Solo dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Lead, error)
	// List ordena por created_at DESC.
	List(ctx context.Context, f LeadFilter, limit, offset int) ([]*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	// MarkConverted fija WON + empresa + fecha solo si el lead no estaba convertido.
	// Devuelve domain.ErrConflict si otra conversión ganó la carrera.
	MarkConverted(ctx context.Context, id, companyID string, at time.Time) error
	// ListAssignedWithRecent devuelve los leads del gestor con sus `recent` interacciones más nuevas.
	ListAssignedWithRecent(ctx context.Context, userID string, recent int) ([]*entity.LeadWithActivity, error)
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StatusCount resultado crudo de leads agrupados por estado.
type StatusCount struct {
	Status entity.LeadStatus
	Count  int
}

// PipelineRepository define las consultas read-only del dashboard comercial.
// assignedTo vacío = todo el pipeline.
type PipelineRepository interface {
	// CountByStatus cuenta leads por estado.
	CountByStatus(ctx context.Context, assignedTo string) ([]StatusCount, error)

	// OpenPipelineValue suma el valor estimado de los leads no terminales.
	// Usa COALESCE para devolver cero si no hay leads abiertos.
	OpenPipelineValue(ctx context.Context, assignedTo string) (decimal.Decimal, error)

	// CountOverdueActions cuenta próximas acciones pendientes y vencidas antes de `now`
	// sobre leads del gestor.
	CountOverdueActions(ctx context.Context, assignedTo string, now time.Time) (int, error)
}

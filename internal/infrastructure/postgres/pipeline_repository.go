package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

var _ repository.PipelineRepository = (*PipelineRepo)(nil)

// PipelineRepo consultas de solo lectura para el dashboard comercial.
type PipelineRepo struct {
	q Querier
}

// NewPipelineRepository construye el adaptador de analítica.
func NewPipelineRepository(q Querier) *PipelineRepo {
	return &PipelineRepo{q: q}
}

// CountByStatus agrupa leads por estado. assignedTo vacío = todos.
func (r *PipelineRepo) CountByStatus(ctx context.Context, assignedTo string) ([]repository.StatusCount, error) {
	const query = `
	SELECT status, COUNT(*)
	FROM leads
	WHERE ($1 = '' OR assigned_to_id::text = $1)
	GROUP BY status
	ORDER BY status`

	rows, err := r.q.Query(ctx, query, assignedTo)
	if err != nil {
		return nil, fmt.Errorf("pipeline.CountByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusCount
	for rows.Next() {
		var status string
		var row repository.StatusCount
		if err := rows.Scan(&status, &row.Count); err != nil {
			return nil, fmt.Errorf("pipeline.CountByStatus scan: %w", err)
		}
		row.Status = entity.LeadStatus(status)
		results = append(results, row)
	}
	return results, rows.Err()
}

// OpenPipelineValue suma estimated_value de leads no terminales.
func (r *PipelineRepo) OpenPipelineValue(ctx context.Context, assignedTo string) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(estimated_value), 0)
	FROM leads
	WHERE status NOT IN ('WON', 'LOST')
	  AND ($1 = '' OR assigned_to_id::text = $1)`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, assignedTo).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("pipeline.OpenPipelineValue: %w", err)
	}
	return total, nil
}

// CountOverdueActions cuenta próximas acciones vencidas sobre leads (del gestor si aplica).
func (r *PipelineRepo) CountOverdueActions(ctx context.Context, assignedTo string, now time.Time) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM interactions i
	JOIN leads l ON l.id = i.lead_id
	WHERE i.next_action <> ''
	  AND i.next_action_completed = FALSE
	  AND i.next_action_date < $2
	  AND ($1 = '' OR l.assigned_to_id::text = $1)`

	var n int
	if err := r.q.QueryRow(ctx, query, assignedTo, now).Scan(&n); err != nil {
		return 0, fmt.Errorf("pipeline.CountOverdueActions: %w", err)
	}
	return n, nil
}

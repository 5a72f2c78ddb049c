// Package analytics contiene los casos de uso del dashboard comercial (pipeline de leads).
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen del pipeline.
//
// Fuente de datos: PipelineRepository (consultas read-only).
type DashboardUseCase struct {
	pipelineRepo repository.PipelineRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(pipelineRepo repository.PipelineRepository) *DashboardUseCase {
	return &DashboardUseCase{pipelineRepo: pipelineRepo, now: time.Now}
}

// GetSummary construye el PipelineSummaryDTO. Para gestores de cuenta se limita a sus leads.
//
// Tres llamadas en paralelo:
//  1. CountByStatus        → ByStatus, TotalLeads, OpenLeads
//  2. OpenPipelineValue    → OpenPipelineValue
//  3. CountOverdueActions  → OverdueActions
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor entity.Actor) (*dto.PipelineSummaryDTO, error) {
	now := uc.now()
	scope := ""
	if !actor.SeesAllLeads() {
		scope = actor.UserID
	}

	type countsResult struct {
		rows []repository.StatusCount
		err  error
	}
	type valueResult struct {
		value decimal.Decimal
		err   error
	}
	type overdueResult struct {
		n   int
		err error
	}

	countsCh := make(chan countsResult, 1)
	valueCh := make(chan valueResult, 1)
	overdueCh := make(chan overdueResult, 1)

	go func() {
		rows, err := uc.pipelineRepo.CountByStatus(ctx, scope)
		countsCh <- countsResult{rows, err}
	}()
	go func() {
		v, err := uc.pipelineRepo.OpenPipelineValue(ctx, scope)
		valueCh <- valueResult{v, err}
	}()
	go func() {
		n, err := uc.pipelineRepo.CountOverdueActions(ctx, scope, now)
		overdueCh <- overdueResult{n, err}
	}()

	counts := <-countsCh
	value := <-valueCh
	overdue := <-overdueCh

	if counts.err != nil {
		return nil, fmt.Errorf("dashboard: leads por estado: %w", counts.err)
	}
	if value.err != nil {
		return nil, fmt.Errorf("dashboard: valor del pipeline: %w", value.err)
	}
	if overdue.err != nil {
		return nil, fmt.Errorf("dashboard: acciones vencidas: %w", overdue.err)
	}

	byStatus := map[string]int{
		string(entity.LeadStatusNew):         0,
		string(entity.LeadStatusContacted):   0,
		string(entity.LeadStatusNegotiation): 0,
		string(entity.LeadStatusWon):         0,
		string(entity.LeadStatusLost):        0,
	}
	total, open := 0, 0
	for _, row := range counts.rows {
		byStatus[string(row.Status)] += row.Count
		total += row.Count
		if !row.Status.IsTerminal() {
			open += row.Count
		}
	}

	return &dto.PipelineSummaryDTO{
		ByStatus:          byStatus,
		TotalLeads:        total,
		OpenLeads:         open,
		OpenPipelineValue: value.value.Round(2),
		OverdueActions:    overdue.n,
		PeriodLabel:       monthLabel(now),
		GeneratedAt:       now,
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PipelineSummaryDTO respuesta de GET /api/dashboard/pipeline.
type PipelineSummaryDTO struct {
	ByStatus          map[string]int  `json:"by_status"`
	TotalLeads        int             `json:"total_leads"`
	OpenLeads         int             `json:"open_leads"`
	OpenPipelineValue decimal.Decimal `json:"open_pipeline_value"`
	OverdueActions    int             `json:"overdue_actions"`
	PeriodLabel       string          `json:"period_label"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Prospectos-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetPipeline godoc
// @Summary      Resumen del pipeline comercial
// @Description  Conteo por estado, valor estimado abierto y acciones vencidas.
// @Description  Para gestores se limita a sus leads asignados.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PipelineSummaryDTO
// @Router       /api/dashboard/pipeline [get]
func (h *DashboardHandler) GetPipeline(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(summary)
}

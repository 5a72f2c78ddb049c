package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/application/usecase"
)

// InteractionHandler maneja el registro de interacciones.
type InteractionHandler struct {
	uc  *usecase.InteractionUseCase
	log zerolog.Logger
}

// NewInteractionHandler construye el handler.
func NewInteractionHandler(uc *usecase.InteractionUseCase, log zerolog.Logger) *InteractionHandler {
	return &InteractionHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar interacción
// @Description  Exactamente uno de lead_id o company_id.
// @Tags         interactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInteractionRequest  true  "Interacción"
// @Success      201   {object}  dto.InteractionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/interactions [post]
func (h *InteractionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInteractionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar interacciones (más recientes primero)
// @Tags         interactions
// @Security     Bearer
// @Produce      json
// @Param        lead_id     query  string  false  "Lead"
// @Param        company_id  query  string  false  "Empresa"
// @Param        contact_id  query  string  false  "Contacto"
// @Param        type        query  string  false  "call | email | meeting | chat | note"
// @Param        limit       query  int     false  "Límite"  default(50)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.InteractionListResponse
// @Router       /api/interactions [get]
func (h *InteractionHandler) List(c *fiber.Ctx) error {
	q := dto.InteractionListQuery{
		LeadID:      c.Query("lead_id"),
		CompanyID:   c.Query("company_id"),
		ContactID:   c.Query("contact_id"),
		Type:        c.Query("type"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.uc.List(c.Context(), GetActor(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar seguimiento de una interacción
// @Tags         interactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la interacción"
// @Param        body  body  dto.UpdateInteractionRequest  true  "Campos de seguimiento"
// @Success      200   {object}  dto.InteractionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/interactions/{id} [patch]
func (h *InteractionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInteractionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Marcar la próxima acción como hecha
// @Tags         interactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la interacción"
// @Success      200  {object}  dto.InteractionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/interactions/{id}/complete [post]
func (h *InteractionHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.MarkActionCompleted(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/application/usecase"
)

// ContactHandler contactos de leads y empresas.
type ContactHandler struct {
	uc  *usecase.ContactUseCase
	log zerolog.Logger
}

// NewContactHandler construye el handler.
func NewContactHandler(uc *usecase.ContactUseCase, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear contacto
// @Tags         contacts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContactRequest  true  "Contacto"
// @Success      201   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contacts [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContactRequest
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
// @Summary      Listar contactos de un lead o empresa
// @Tags         contacts
// @Security     Bearer
// @Produce      json
// @Param        lead_id     query  string  false  "Lead"
// @Param        company_id  query  string  false  "Empresa"
// @Success      200         {object}  dto.ContactListResponse
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	q := dto.ContactListQuery{
		LeadID:      c.Query("lead_id"),
		CompanyID:   c.Query("company_id"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.uc.List(c.Context(), GetActor(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

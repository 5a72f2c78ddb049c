package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/application/leads"
)

// LeadHandler maneja las peticiones HTTP de leads (protegido).
type LeadHandler struct {
	uc  *leads.UseCase
	log zerolog.Logger
}

// NewLeadHandler construye el handler.
func NewLeadHandler(uc *leads.UseCase, log zerolog.Logger) *LeadHandler {
	return &LeadHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear lead
// @Description  Un gestor sin assigned_to_id queda asignado a sí mismo.
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLeadRequest  true  "Datos del lead"
// @Success      201   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/leads [post]
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLeadRequest
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
// @Summary      Listar leads
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "NEW | CONTACTED | NEGOTIATION | WON | LOST | CONVERTED"
// @Param        priority     query  string  false  "HIGH | MEDIUM | LOW"
// @Param        assigned_to  query  string  false  "ID del gestor (ignorado para gestores)"
// @Param        source       query  string  false  "Origen"
// @Param        search       query  string  false  "Busca en nombre de empresa"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.LeadListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Router       /api/leads [get]
func (h *LeadHandler) List(c *fiber.Ctx) error {
	q := dto.LeadListQuery{
		Status:      c.Query("status"),
		Priority:    c.Query("priority"),
		AssignedTo:  c.Query("assigned_to"),
		Source:      c.Query("source"),
		Search:      c.Query("search"),
		PageRequest: pageFromQuery(c),
	}
	out, err := h.uc.List(c.Context(), GetActor(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de lead con contactos e historial
// @Tags         leads
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lead"
// @Success      200  {object}  dto.LeadResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [get]
func (h *LeadHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar lead
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del lead"
// @Param        body  body  dto.UpdateLeadRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.LeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/leads/{id} [patch]
func (h *LeadHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir lead en empresa cliente
// @Description  Crea el usuario dueño y la empresa, marca el lead como convertido y traslada
// @Description  contactos e interacciones, todo en una transacción.
// @Tags         leads
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del lead"
// @Param        body  body  dto.ConvertLeadRequest  true  "Credenciales del dueño"
// @Success      201   {object}  dto.ConvertLeadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertLeadRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Convert(c.Context(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del lead
// @Tags         leads
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del lead"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/leads/{id}/report [get]
func (h *LeadHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.DownloadReport(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/application/notifications"
)

// NotificationHandler bandeja, envío directo y barrido automático.
type NotificationHandler struct {
	uc  *notifications.UseCase
	log zerolog.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notifications.UseCase, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

// Send godoc
// @Summary      Enviar notificación a otro usuario
// @Tags         notifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendNotificationRequest  true  "Notificación"
// @Success      201   {object}  dto.NotificationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/notifications [post]
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var in dto.SendNotificationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Send(c.Context(), GetActor(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Bandeja de notificaciones
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        filter  query  string  false  "unread | high"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.NotificationListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), GetUserID(c), c.Query("filter"), pageFromQuery(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id   path  string  true  "ID de la notificación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MarkAllReadResponse
// @Router       /api/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	out, err := h.uc.MarkAllRead(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Generar notificaciones automáticas del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GenerateNotificationsResponse
// @Router       /api/notifications/generate [post]
func (h *NotificationHandler) Generate(c *fiber.Ctx) error {
	out, err := h.uc.GenerateAutomatic(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Recipients godoc
// @Summary      Destinatarios permitidos
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RecipientResponse
// @Router       /api/notifications/recipients [get]
func (h *NotificationHandler) Recipients(c *fiber.Ctx) error {
	out, err := h.uc.AvailableRecipients(c.Context(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CanSend godoc
// @Summary      ¿Puede el usuario notificar a este destinatario?
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del destinatario"
// @Success      200  {object}  dto.CanSendResponse
// @Router       /api/notifications/recipients/{id}/can-send [get]
func (h *NotificationHandler) CanSend(c *fiber.Ctx) error {
	out, err := h.uc.CanSend(c.Context(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/Prospectos-api/internal/application/analytics"
	"github.com/jhoicas/Prospectos-api/internal/application/leads"
	"github.com/jhoicas/Prospectos-api/internal/application/notifications"
	"github.com/jhoicas/Prospectos-api/internal/application/usecase"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	LeadUC         *leads.UseCase
	InteractionUC  *usecase.InteractionUseCase
	ContactUC      *usecase.ContactUseCase
	NotificationUC *notifications.UseCase
	DashboardUC    *appanalytics.DashboardUseCase
	JWTSecret      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(metrics.HTTP())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Todo /api requiere Bearer Token
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Pipeline comercial: administradores y gestores
	sales := RequireRole(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleAccountManager)

	leadHandler := NewLeadHandler(deps.LeadUC, deps.Log)
	leadsGroup := api.Group("/leads", sales)
	leadsGroup.Post("/", leadHandler.Create)
	leadsGroup.Get("/", leadHandler.List)
	leadsGroup.Get("/:id", leadHandler.GetByID)
	leadsGroup.Patch("/:id", leadHandler.Update)
	leadsGroup.Post("/:id/convert", leadHandler.Convert)
	leadsGroup.Get("/:id/report", leadHandler.Report)

	interactionHandler := NewInteractionHandler(deps.InteractionUC, deps.Log)
	interactions := api.Group("/interactions", sales)
	interactions.Post("/", interactionHandler.Create)
	interactions.Get("/", interactionHandler.List)
	interactions.Patch("/:id", interactionHandler.Update)
	interactions.Post("/:id/complete", interactionHandler.Complete)

	contactHandler := NewContactHandler(deps.ContactUC, deps.Log)
	contacts := api.Group("/contacts", sales)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", contactHandler.List)

	// Notificaciones: cualquier usuario autenticado; el autorizador decide destinatarios
	notificationHandler := NewNotificationHandler(deps.NotificationUC, deps.Log)
	notifs := api.Group("/notifications")
	notifs.Post("/", notificationHandler.Send)
	notifs.Get("/", notificationHandler.List)
	notifs.Post("/read-all", notificationHandler.MarkAllRead)
	notifs.Post("/generate", notificationHandler.Generate)
	notifs.Get("/recipients", notificationHandler.Recipients)
	notifs.Get("/recipients/:id/can-send", notificationHandler.CanSend)
	notifs.Post("/:id/read", notificationHandler.MarkRead)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Log)
	api.Get("/dashboard/pipeline", sales, dashboardHandler.GetPipeline)
}

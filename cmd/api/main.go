package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Prospectos-api/internal/application/analytics"
	"github.com/jhoicas/Prospectos-api/internal/application/leads"
	"github.com/jhoicas/Prospectos-api/internal/application/notifications"
	"github.com/jhoicas/Prospectos-api/internal/application/usecase"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Prospectos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/queue"
	httpRouter "github.com/jhoicas/Prospectos-api/internal/interfaces/http"
	"github.com/jhoicas/Prospectos-api/pkg/config"
	"github.com/jhoicas/Prospectos-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.ApplyMigrations(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	leadRepo := postgres.NewLeadRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	interactionRepo := postgres.NewInteractionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	pipelineRepo := postgres.NewPipelineRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin él no hay throttle de barridos manuales.
	var throttle notifications.SweepThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible; barridos sin throttle")
		} else {
			defer rdb.Close()
			throttle = cache.NewSweepThrottle(rdb, cfg.Sweep.MinInterval)
		}
	}

	// RabbitMQ es opcional: sin él las notificaciones solo quedan en la bandeja.
	var publisher notifications.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible; sin entrega externa")
		} else {
			defer rabbit.Close()
			publisher = queue.NewProducer(rabbit.Ch)
		}
	}

	generator := notifications.NewGenerator(leadRepo, interactionRepo, notificationRepo, publisher, log.Zerolog())
	notificationUC := notifications.NewUseCase(
		notificationRepo,
		notifications.NewAuthorizer(userRepo, companyRepo),
		generator, throttle, publisher,
		log.Zerolog(),
	)

	// PDF: reporte de lead con QR hacia el frontend
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.BaseURL)
	leadUC := leads.NewUseCase(
		leadRepo, contactRepo, interactionRepo, userRepo,
		txRunner, notificationUC, pdfGenerator,
		log.Zerolog(),
	)
	interactionUC := usecase.NewInteractionUseCase(interactionRepo, leadRepo, companyRepo, contactRepo, log.Zerolog())
	contactUC := usecase.NewContactUseCase(contactRepo, leadRepo, companyRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(pipelineRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Prospectos API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		LeadUC:         leadUC,
		InteractionUC:  interactionUC,
		ContactUC:      contactUC,
		NotificationUC: notificationUC,
		DashboardUC:    dashboardUC,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

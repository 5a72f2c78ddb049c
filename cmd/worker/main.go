package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Prospectos-api/internal/application/notifications"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/mail"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/queue"
	"github.com/jhoicas/Prospectos-api/pkg/config"
	"github.com/jhoicas/Prospectos-api/pkg/logger"
)

// Proceso de fondo: barrido periódico de recordatorios y entrega por correo desde la cola.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name + "-worker",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Dur("sweep_interval", cfg.Sweep.Interval).
		Int("concurrency", cfg.Sweep.Concurrency).
		Msg("iniciando worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	leadRepo := postgres.NewLeadRepository(pool)
	interactionRepo := postgres.NewInteractionRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)

	var publisher notifications.Publisher
	var rabbit *queue.RabbitMQ
	if cfg.RabbitMQ.URL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible; sin entrega externa")
		} else {
			defer rabbit.Close()
			publisher = queue.NewProducer(rabbit.Ch)
		}
	}

	generator := notifications.NewGenerator(leadRepo, interactionRepo, notificationRepo, publisher, log.Zerolog())

	g, gctx := errgroup.WithContext(ctx)

	scheduler := notifications.NewScheduler(userRepo, generator, cfg.Sweep.Concurrency, log.Zerolog())
	g.Go(func() error {
		scheduler.Run(gctx, cfg.Sweep.Interval)
		return nil
	})

	if rabbit != nil && cfg.Mail.Enabled() {
		sender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
		mailer := mail.NewNotificationMailer(sender, userRepo, cfg.App.BaseURL)
		// Canal propio para el consumidor; el de publicación lo usa el generador.
		consumeCh, err := rabbit.Conn.Channel()
		if err != nil {
			log.Fatal().Err(err).Msg("abrir canal de consumo")
		}
		defer consumeCh.Close()
		worker := queue.NewWorker(consumeCh, mailer, log.Zerolog())
		g.Go(func() error { return worker.Start(gctx) })
	} else {
		log.Info().Msg("entrega por correo deshabilitada")
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("worker finalizado con error")
		os.Exit(1)
	}
	log.Info().Msg("worker detenido")
}

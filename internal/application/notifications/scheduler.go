package notifications

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// SweepStats resultado de un barrido sobre todos los gestores.
type SweepStats struct {
	Managers int
	Created  int
	Failed   int
}

// Scheduler corre el generador para todos los gestores de cuenta activos.
type Scheduler struct {
	users       repository.UserRepository
	generator   *Generator
	concurrency int
	log         zerolog.Logger
}

// NewScheduler construye el planificador. concurrency < 1 se trata como 1.
func NewScheduler(users repository.UserRepository, generator *Generator, concurrency int, log zerolog.Logger) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		users:       users,
		generator:   generator,
		concurrency: concurrency,
		log:         log.With().Str("component", "sweep_scheduler").Logger(),
	}
}

// RunOnce barre a cada gestor con concurrencia acotada. El fallo de uno no cancela a los demás.
func (s *Scheduler) RunOnce(ctx context.Context) (SweepStats, error) {
	start := time.Now()
	all, err := s.users.ListAll(ctx)
	if err != nil {
		return SweepStats{}, err
	}

	var created, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	managers := 0
	for _, u := range all {
		if entity.ClassifyRole(u.Role) != entity.RoleClassAccountManager {
			continue
		}
		managers++
		userID := u.ID
		g.Go(func() error {
			list, err := s.generator.Generate(ctx, userID)
			if err != nil {
				failed.Add(1)
				s.log.Error().Err(err).Str("user_id", userID).Msg("barrido fallido")
				return nil
			}
			created.Add(int64(len(list)))
			return nil
		})
	}
	_ = g.Wait()

	stats := SweepStats{Managers: managers, Created: int(created.Load()), Failed: int(failed.Load())}
	s.log.Info().
		Int("managers", stats.Managers).
		Int("created", stats.Created).
		Int("failed", stats.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("barrido completado")
	return stats, nil
}

// Run ejecuta un barrido al arrancar y luego cada interval hasta que ctx termine.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.log.Error().Err(err).Msg("listar usuarios")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Package cache agrupa los adaptadores Redis.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/Prospectos-api/internal/application/notifications"
)

var _ notifications.SweepThrottle = (*SweepThrottle)(nil)

const sweepKeyPrefix = "prospectos:sweep:"

// SweepThrottle limita a un barrido por usuario dentro de la ventana, vía SETNX con TTL.
type SweepThrottle struct {
	client redis.Cmdable
	window time.Duration
}

// NewSweepThrottle construye el throttle. window <= 0 lo desactiva (Acquire siempre true).
func NewSweepThrottle(client redis.Cmdable, window time.Duration) *SweepThrottle {
	return &SweepThrottle{client: client, window: window}
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Acquire devuelve true si no hubo barrido para userID dentro de la ventana.
func (t *SweepThrottle) Acquire(ctx context.Context, userID string) (bool, error) {
	if t.window <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, sweepKeyPrefix+userID, time.Now().Unix(), t.window).Result()
	if err != nil {
		return false, fmt.Errorf("sweep throttle: %w", err)
	}
	return ok, nil
}

package worker

// sweep_cron.go
// Background goroutine that cancels orders left in "recibido" past the
// staleness threshold. A Redis lease makes only one instance sweep per tick.

import (
	"context"
	"time"

	"mercadito/internal/cache"

	"github.com/rs/zerolog/log"
)

const sweepLockKey = "mercadito:lock:cancelar-vencidos"

// Sweeper is the part of service.PedidoService the cron needs.
type Sweeper interface {
	CancelarPedidosVencidos(ctx context.Context) (int, error)
}

type SweepCronConfig struct {
	Pedidos  Sweeper
	Locker   cache.Locker
	Interval time.Duration
}

// StartSweepCron ticks every cfg.Interval until ctx is cancelled.
func StartSweepCron(ctx context.Context, cfg SweepCronConfig) {
	if cfg.Locker == nil {
		cfg.Locker = cache.NoopLocker{}
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("sweep_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("sweep_cron: shutting down")
				return
			case <-ticker.C:
				runSweep(ctx, cfg)
			}
		}
	}()
}

// runSweep returns the number of orders canceled, or -1 if the tick was skipped.
func runSweep(ctx context.Context, cfg SweepCronConfig) int {
	lease := cfg.Interval * 9 / 10
	ok, err := cfg.Locker.TryLock(ctx, sweepLockKey, lease)
	if err != nil {
		log.Error().Err(err).Msg("sweep_cron: lock failed, skipping tick")
		return -1
	}
	if !ok {
		log.Debug().Msg("sweep_cron: another instance holds the lease")
		return -1
	}

	n, err := cfg.Pedidos.CancelarPedidosVencidos(ctx)
	if err != nil {
		log.Error().Err(err).Int("cancelados", n).Msg("sweep_cron: sweep failed")
	}
	return n
}

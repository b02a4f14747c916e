package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mercadito/internal/cache"
	"mercadito/internal/config"
	"mercadito/internal/infra"
	"mercadito/internal/repository"
	"mercadito/internal/router"
	"mercadito/internal/service"
	"mercadito/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger — dev: pretty, prod: JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
	} else {
		log.Warn().Msg("REDIS_URL empty: exchange-rate cache, sweep lease and notifications disabled")
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	promocionRepo := repository.NewPromocionRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)
	stockRepo := repository.DetectStockRepository(ctx, db, cfg.StockAtomic)
	fallbackRepo := repository.NewBestEffortStockRepository(db)

	// ── Cache / locks ────────────────────────────────────────────────────────
	var (
		cotCache cache.CotizacionCache = cache.NoopCotizacionCache{}
		locker   cache.Locker          = cache.NoopLocker{}
	)
	if rdb != nil {
		cotCache = cache.NewRedisCotizacionCache(rdb, cfg.ExchangeRateTTL())
		locker = cache.NewRedisLocker(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	cotizacionSvc := service.NewCotizacionService(cotizacionRepo, cotCache)
	inventarioSvc := service.NewInventarioService(productoRepo, stockRepo, fallbackRepo, movimientoRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, promocionRepo, cotizacionSvc)
	promocionSvc := service.NewPromocionService(promocionRepo, productoRepo)
	gastoSvc := service.NewGastoService(gastoRepo)
	metricasSvc := service.NewMetricasService(ventaRepo, gastoRepo, cotizacionSvc)

	pedidoOpts := []service.Opcion{service.ConAntiguedadMaxima(cfg.StaleOrderAge())}

	// Notifications go through the Redis job queue; without Redis they are skipped.
	if rdb != nil {
		queue := worker.NewRedisQueue(rdb)
		pedidoOpts = append(pedidoOpts, service.ConNotificador(worker.NewDispatcher(queue)))

		mailer := infra.NewMailer(cfg)
		if !mailer.Configured() || cfg.NotifyEmail == "" {
			log.Warn().Msg("SMTP_HOST or NOTIFY_EMAIL empty: order notifications will be dropped")
		}
		smtpCB := infra.NewCircuitBreaker("smtp", infra.DefaultCBConfig())
		pool := worker.NewPool(queue)
		pool.Register(worker.QueueNotificaciones, worker.JobPedidoNuevo,
			worker.NewNotificacionWorker(mailer, smtpCB, cfg.NotifyEmail))
		pool.Start(ctx, cfg.WorkerPoolSize)
	}
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, promocionRepo, inventarioSvc, ventaSvc, pedidoOpts...)

	worker.StartSweepCron(ctx, worker.SweepCronConfig{
		Pedidos:  pedidoSvc,
		Locker:   locker,
		Interval: cfg.SweepInterval(),
	})

	r := router.New(cfg, router.Deps{
		DB:           db,
		Redis:        rdb,
		Productos:    productoRepo,
		Inventario:   inventarioSvc,
		Pedidos:      pedidoSvc,
		Ventas:       ventaSvc,
		Promociones:  promocionSvc,
		Cotizaciones: cotizacionSvc,
		Gastos:       gastoSvc,
		Metricas:     metricasSvc,
		Done:         ctx.Done(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("mercadito backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel() // stops workers, sweep cron and limiter purges
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	_ "github.com/MrKriegler/go-storefront/docs"
	"github.com/MrKriegler/go-storefront/internal/catalog"
	"github.com/MrKriegler/go-storefront/internal/core"
	"github.com/MrKriegler/go-storefront/internal/events"
	transporthttp "github.com/MrKriegler/go-storefront/internal/http"
	"github.com/MrKriegler/go-storefront/internal/http/handlers"
	"github.com/MrKriegler/go-storefront/internal/http/health"
	"github.com/MrKriegler/go-storefront/internal/jobs"
	"github.com/MrKriegler/go-storefront/internal/middleware"
	"github.com/MrKriegler/go-storefront/internal/platform/config"
	"github.com/MrKriegler/go-storefront/internal/platform/logging"
	"github.com/MrKriegler/go-storefront/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting go-storefront API", "env", cfg.Env, "store", cfg.StoreType, "persist", cfg.PersistMode)

	// 1. Storage
	backend, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			log.Warn("store close failed", "err", err)
		}
	}()

	// 2. Persistence policy
	persistTimeout := time.Duration(cfg.PersistTimeoutMs) * time.Millisecond
	var (
		persister   core.Persister
		writeBehind *jobs.WriteBehind
		workers     []jobs.Worker
	)
	switch cfg.PersistMode {
	case "writebehind":
		writeBehind = jobs.NewWriteBehind(backend.KV,
			time.Duration(cfg.FlushIntervalMs)*time.Millisecond, persistTimeout, log)
		persister = writeBehind
		workers = append(workers, writeBehind)
	default:
		persister = core.NewDirectPersister(backend.KV, persistTimeout)
	}

	// 3. Catalog source and order events
	src, err := catalog.NewClient(cfg.CatalogBaseURL, time.Duration(cfg.CatalogTimeoutSec)*time.Second)
	if err != nil {
		return err
	}

	publisher, brokerCheck, closeBroker, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closeBroker()

	// 4. Storefront
	cart := core.NewCartLedger(backend.KV, persister, cfg.CartKey, log)
	sf := &core.Storefront{
		Cart:      cart,
		Favorites: core.NewFavoritesSet(backend.KV, persister, cfg.FavoritesKey, log),
		Catalog:   core.NewCatalogPager(src, cfg.CatalogPageSize, log),
		Checkout:  core.NewCheckoutService(cart, publisher, log),
	}
	sf.Load(ctx)
	if _, err := sf.Dispatch(ctx, core.SearchCatalog{}); err != nil {
		log.Warn("initial catalog load failed", "err", err, "message", core.UserMessage(err))
	}

	// 5. Background workers
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w jobs.Worker) {
			defer wg.Done()
			w.Start(workerCtx)
		}(w)
		log.Info("worker scheduled", "worker", w.Name())
	}

	// 6. HTTP
	var limiter middleware.Limiter
	window := time.Minute
	if backend.Redis != nil {
		limiter = middleware.NewRedisLimiter(backend.Redis, cfg.RedisKeyPrefix, cfg.RateLimitRPM, window)
	} else {
		rl := middleware.NewRateLimiter(cfg.RateLimitRPM, window)
		rl.StartWithContext(ctx)
		limiter = rl
	}

	checks := map[string]health.Pinger{"store": backend.KV}
	if brokerCheck != nil {
		checks["broker"] = brokerCheck
	}

	router := transporthttp.NewRouter(transporthttp.Deps{
		Log: log,
		Public: []handlers.Mountable{
			health.New(log, checks, 2*time.Second),
			handlers.NewDocsHandler(log),
		},
		Mounts: []handlers.Mountable{
			handlers.NewCatalogHandler(sf, log),
			handlers.NewCartHandler(sf, log),
			handlers.NewFavoritesHandler(sf, log),
			handlers.NewCheckoutHandler(sf, log),
		},
		Streams: []handlers.Mountable{
			handlers.NewStreamHandler(sf, log),
		},
		Middlewares: []func(http.Handler) http.Handler{
			middleware.SecurityHeaders,
			middleware.CORS(cfg.AllowedOrigins),
			middleware.LimitRequestBody(middleware.MaxBodySize),
			middleware.SimpleAPIKey(cfg.APIKey),
			middleware.RateLimit(limiter, log),
		},
		RequestTimeout: time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			cancelWorkers()
			wg.Wait()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	// 7. Drain: stop HTTP, stop workers, then flush what is still queued.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown incomplete", "err", err)
	}
	cancelWorkers()
	wg.Wait()

	if writeBehind != nil {
		if err := writeBehind.Flush(shutdownCtx); err != nil {
			log.Warn("final flush failed", "err", err)
		}
	}

	log.Info("server stopped")
	return nil
}

// openPublisher connects to RabbitMQ when RABBITMQ_URL is set and otherwise
// logs orders.
func openPublisher(cfg *config.Config, log *slog.Logger) (core.OrderPublisher, health.Pinger, func(), error) {
	if cfg.RabbitURL == "" {
		log.Info("RABBITMQ_URL not set, orders will be logged")
		return events.NewLogPublisher(log), nil, func() {}, nil
	}

	conn, err := events.Dial(cfg.RabbitURL)
	if err != nil {
		return nil, nil, nil, err
	}
	pub, err := events.NewRabbitPublisher(conn, cfg.RabbitExchange)
	if err != nil {
		_ = conn.Close()
		return nil, nil, nil, err
	}

	check := health.PingFunc(func(context.Context) error {
		if conn.IsClosed() {
			return amqp.ErrClosed
		}
		return nil
	})
	closeFn := func() {
		_ = pub.Close()
		_ = conn.Close()
	}
	return pub, check, closeFn, nil
}

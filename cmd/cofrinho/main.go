package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"cofrinho/internal/advice"
	"cofrinho/internal/backend"
	"cofrinho/internal/cache"
	"cofrinho/internal/config"
	"cofrinho/internal/core"
	apphttp "cofrinho/internal/http"
	"cofrinho/internal/log"
	"cofrinho/internal/metrics"
)

const (
	shutdownTimeout    = 30 * time.Second
	cacheSweepInterval = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Failed to load configuration", log.FieldError, err.Error())
		os.Exit(1)
	}

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentApp,
		JSON:      strings.EqualFold(cfg.LogFormat, "json"),
		Output:    os.Stdout,
	})
	log.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	ledgerResult, err := backend.NewFactory(logger, m).Create(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := ledgerResult.Cleanup(); err != nil {
			logger.Warn("Ledger cleanup failed", log.FieldError, err.Error())
		}
	}()

	caches := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	collaborator, err := newCollaborator(ctx, cfg, logger, m, caches)
	if err != nil {
		return err
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Ledger:         ledgerResult.Service,
		Advisor:        collaborator,
		Tracker:        advice.NewTracker(core.MonthIndex(time.Now())),
		Household:      cfg.Household(),
		Logger:         logger,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		RateLimit:      cfg.RateLimit,
		AdviceTimeout:  cfg.AdviceTimeout,
	})
	if err != nil {
		return err
	}
	srv.ReadTimeout = 10 * time.Second
	// Advice generation can take a while; the write timeout leaves it room.
	srv.WriteTimeout = 90 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting cofrinho server",
			"port", cfg.Port,
			"backend", cfg.LedgerBackend,
			log.FieldProvider, cfg.AdviceProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return caches.Run(gctx, cacheSweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newCollaborator wires the configured advice provider behind a response cache.
func newCollaborator(ctx context.Context, cfg *config.Config, logger *log.Logger, m *metrics.Metrics, caches *cache.Manager) (*advice.Collaborator, error) {
	var gen advice.Generator
	switch cfg.AdviceProvider {
	case config.ProviderGemini:
		g, err := advice.NewGemini(ctx, cfg.AdviceAPIKey, cfg.AdviceModel)
		if err != nil {
			return nil, err
		}
		gen = g
	case config.ProviderOpenAI:
		gen = advice.NewOpenAI(cfg.AdviceAPIKey, cfg.AdviceBaseURL, cfg.AdviceModel, nil)
	default:
		gen = advice.Disabled{}
		logger.Info("Advice provider disabled, the advice box will show the fallback message")
	}

	responses := cache.NewLRUCache[string](cfg.AdviceCacheSize, cfg.AdviceCacheTTL)
	caches.Register("advice", responses)

	return advice.New(gen,
		advice.WithTemperature(cfg.AdviceTemperature),
		advice.WithHousehold(cfg.Household()),
		advice.WithCache(responses),
		advice.WithMetrics(m),
		advice.WithLogger(logger.WithComponent(log.ComponentAdvice)),
		advice.WithProvider(cfg.AdviceProvider),
	), nil
}

package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"search-orchestrator/config"
	"search-orchestrator/domain"
	"search-orchestrator/logger"
	"search-orchestrator/metrics"
	appOtel "search-orchestrator/utils/otel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds all components of the search-orchestrator service.
type App struct {
	httpServer   *http.Server
	deps         *Dependencies
	otelShutdown appOtel.ShutdownFunc
}

// runtime is the telemetry, logging and configuration shared by every
// command.
type runtime struct {
	otelCfg      appOtel.Config
	otelShutdown appOtel.ShutdownFunc
	cfg          *config.Config
}

func initRuntime(ctx context.Context) (*runtime, error) {
	// ── OpenTelemetry ──
	otelCfg := appOtel.ConfigFromEnv()
	otelShutdown, err := appOtel.InitProvider(ctx, otelCfg)
	if err != nil {
		fmt.Printf("Failed to initialize OpenTelemetry: %v\n", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// ── Logger ──
	logger.InitWithOTel(otelCfg.Enabled)

	// ── Load config ──
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Error("Failed to load config", "err", err)
		shutdownTelemetry(otelShutdown)
		return nil, err
	}

	return &runtime{otelCfg: otelCfg, otelShutdown: otelShutdown, cfg: cfg}, nil
}

// Run initializes all components and starts the service.
// It blocks until ctx is cancelled, then performs graceful shutdown.
func Run(ctx context.Context) error {
	rt, err := initRuntime(ctx)
	if err != nil {
		return err
	}
	logger.Logger.Info("Starting search-orchestrator",
		"service", rt.otelCfg.ServiceName,
		"otel_enabled", rt.otelCfg.Enabled,
	)

	deps, err := NewDependencies(ctx, rt.cfg)
	if err != nil {
		logger.Logger.Error("Failed to initialize dependencies", "err", err)
		shutdownTelemetry(rt.otelShutdown)
		return err
	}

	// ── Index bootstrap ──
	setupCtx, cancel := context.WithTimeout(ctx, config.IndexSetupTimeout)
	err = deps.EnsureIndexes.Execute(setupCtx)
	cancel()
	if err != nil {
		logger.Logger.Error("Failed to configure indexes", "err", err)
		deps.Close()
		shutdownTelemetry(rt.otelShutdown)
		return err
	}
	logger.Logger.Info("Indexes configured", "domains", domain.AllDomains())

	// ── Metrics ──
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(reg)

	// ── Server ──
	app := &App{
		httpServer:   newHTTPServer(deps, reg, rt.otelCfg),
		deps:         deps,
		otelShutdown: rt.otelShutdown,
	}

	go func() {
		logger.Logger.Info("http listen", "addr", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("http", "err", err)
		}
	}()

	// ── Wait for shutdown signal ──
	<-ctx.Done()
	app.shutdown()
	return nil
}

// shutdown performs graceful shutdown of all components.
func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("http shutdown error", "err", err)
	}
	a.deps.Close()
	shutdownTelemetry(a.otelShutdown)
}

func shutdownTelemetry(shutdown appOtel.ShutdownFunc) {
	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		fmt.Printf("Failed to shutdown OpenTelemetry: %v\n", err)
	}
}

// RunSeed bulk-loads the movie and book seed files. Empty paths fall back to
// SEED_MOVIES_FILE and SEED_BOOKS_FILE; a domain without a file is skipped.
func RunSeed(ctx context.Context, moviesFile, booksFile string) error {
	rt, err := initRuntime(ctx)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(rt.otelShutdown)

	if moviesFile == "" {
		moviesFile = rt.cfg.Seed.MoviesFile
	}
	if booksFile == "" {
		booksFile = rt.cfg.Seed.BooksFile
	}
	if moviesFile == "" && booksFile == "" {
		return fmt.Errorf("no seed files given")
	}

	deps, err := NewDependencies(ctx, rt.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	for _, src := range []struct {
		domain domain.Domain
		path   string
	}{
		{domain.Movies, moviesFile},
		{domain.Books, booksFile},
	} {
		if src.path == "" {
			continue
		}
		docs, err := loadSeedFile(src.path, src.domain)
		if err != nil {
			return err
		}
		n, err := deps.Seed.Seed(ctx, src.domain, docs)
		if err != nil {
			return err
		}
		logger.Logger.Info("seed complete", "domain", src.domain, "file", src.path, "count", n)
	}
	return nil
}

// RunImport performs one web import and writes the result page as JSON.
func RunImport(ctx context.Context, query string, out io.Writer) error {
	rt, err := initRuntime(ctx)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(rt.otelShutdown)

	deps, err := NewDependencies(ctx, rt.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	result, err := deps.ImportFromWeb.Execute(ctx, query)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

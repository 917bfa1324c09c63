package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/angeloszaimis/cdo-trips/config"
	"github.com/angeloszaimis/cdo-trips/internal/gateway"
	"github.com/angeloszaimis/cdo-trips/internal/handler"
	"github.com/angeloszaimis/cdo-trips/internal/healthcheck"
	"github.com/angeloszaimis/cdo-trips/internal/metrics"
	"github.com/angeloszaimis/cdo-trips/internal/render"
	"github.com/angeloszaimis/cdo-trips/internal/store"
	"github.com/angeloszaimis/cdo-trips/pkg/logger"
)

const metricsBufferSize = 1000

func main() {
	path, err := config.DefaultPath()
	if err != nil {
		slog.Error("failed to locate config", slog.Any("err", err))
		os.Exit(1)
	}

	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", path), slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, true, cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := setup(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to start", slog.Any("err", err))
		os.Exit(1)
	}
	defer a.close()

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- a.server.Serve()
	}()

	log.Info("Serving trip sort page",
		slog.String("mode", a.server.Mode().String()),
		slog.String("address", a.server.Addr()))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-srvErrCh:
		if err != nil {
			log.Error("FastCGI server stopped", slog.Any("err", err))
			a.close()
			os.Exit(1)
		}
	}
}

// app holds what setup started so it can be stopped in order.
type app struct {
	pool      store.Pool
	collector *metrics.Collector
	scheduler *cron.Cron
	handler   *handler.SortPageHandler
	server    *gateway.Server
}

// setup builds every component in startup order. Any error is fatal for the
// process. Background work is bound to ctx.
func setup(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("compile template: %w", err)
	}

	pool, err := store.Open(ctx, cfg.DBString, cfg.MaxConns, log)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	a := &app{pool: pool}

	a.collector = metrics.NewCollector(metricsBufferSize, log)
	a.collector.Start(ctx)

	if interval := cfg.HealthCheckEvery(); interval > 0 {
		go healthcheck.HealthCheck(ctx, pool, interval, log, a.collector)
	}

	a.scheduler, err = newScheduler(cfg.MetricsSchedule, a.collector)
	if err != nil {
		a.close()
		return nil, err
	}
	a.scheduler.Start()

	a.handler = handler.NewSortPageHandler(log, pool, renderer, a.collector)

	a.server, err = gateway.New(gateway.ModeFor(cfg.TCP), cfg.Address, a.handler)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("create server: %w", err)
	}

	if err := a.server.Listen(); err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

func newScheduler(spec string, collector *metrics.Collector) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, collector.Report); err != nil {
		return nil, fmt.Errorf("schedule metrics report %q: %w", spec, err)
	}
	return c, nil
}

func (a *app) close() {
	if a.server != nil {
		a.server.Close()
	}
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

package healthcheck

import (
	"context"
	"log/slog"
	"time"

	"github.com/angeloszaimis/cdo-trips/internal/metrics"
)

const pingTimeout = 5 * time.Second

// Pinger is the part of the pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck periodically pings the database until ctx is cancelled. Status
// changes are logged and reported to collector, which may be nil.
func HealthCheck(
	ctx context.Context,
	pool Pinger,
	interval time.Duration,
	logger *slog.Logger,
	collector *metrics.Collector,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true

	for {
		select {
		case <-ctx.Done():
			logger.Info("Health check stopped")
			return

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := pool.Ping(pingCtx)
			cancel()

			up := err == nil
			if up == healthy {
				continue
			}
			healthy = up

			collector.Emit(metrics.MetricEvent{
				Type:    metrics.EventHealthChanged,
				Healthy: up,
			})

			if up {
				logger.Info("Database is back up")
			} else {
				logger.Warn("Database is down", slog.Any("err", err))
			}
		}
	}
}

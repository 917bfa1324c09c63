package metrics

import (
	"log/slog"
)

// Report logs the current snapshot, one line for the totals and one per
// sort key.
func (c *Collector) Report() {
	snap := c.Snapshot()

	failures := make([]any, 0, len(snap.Failures))
	for stage, n := range snap.Failures {
		failures = append(failures, slog.Int64(stage, n))
	}

	c.logger.Info("Request metrics",
		slog.Int64("total_requests", snap.TotalRequests),
		slog.Duration("uptime", snap.Uptime),
		slog.Int64("write_failures", snap.WriteFailures),
		slog.Bool("database_healthy", snap.DatabaseHealthy),
		slog.Group("failures", failures...))

	for key, km := range snap.SortKeys {
		c.logger.Info("Sort key metrics",
			slog.String("sort_type", key),
			slog.Int64("requests", km.Requests),
			slog.Int64("completed", km.Completed),
			slog.Int64("trips_served", km.TripsServed),
			slog.Duration("avg", km.AvgResponse),
			slog.Duration("p50", km.P50Response),
			slog.Duration("p95", km.P95Response),
			slog.Duration("p99", km.P99Response))
	}
}

// Package metrics collects request metrics for the sort page.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Request counts per sort key
//   - Response times per sort key with percentile calculations (P50, P95, P99)
//   - Failed requests per pipeline stage
//   - Response write failures
//   - Database health transitions
//
// The collector runs in a dedicated goroutine. Emit never blocks the request
// path: when the buffer is full the event is dropped.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:     metrics.EventResponseCompleted,
//		SortKey:  "county",
//		Duration: 12 * time.Millisecond,
//		Trips:    40,
//	})
//
//	collector.Report()
package metrics

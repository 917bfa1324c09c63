package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/cdo-trips/internal/metrics"
	"github.com/angeloszaimis/cdo-trips/internal/render"
	"github.com/angeloszaimis/cdo-trips/internal/store"
	"github.com/angeloszaimis/cdo-trips/internal/strategy"
	"github.com/angeloszaimis/cdo-trips/internal/trip"
)

// Pipeline stages reported on failure.
const (
	StageAcquire = "acquire"
	StageFetch   = "fetch"
	StageRender  = "render"
)

// StageError marks which step of the pipeline failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type SortPageHandler struct {
	logger           *slog.Logger
	pool             store.Pool
	renderer         *render.Renderer
	metricsCollector *metrics.Collector
}

// Page is one rendered response with the sort key and trips it was built from.
type Page struct {
	SortKey string
	Trips   []trip.Trip
	Body    string
}

// ServeHTTP answers one gateway request. Failures before the response is
// written get a bare 500 with no page. A failed write is logged and otherwise
// ignored.
func (h *SortPageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page, err := h.Build(r.Context(), r.URL.RawQuery)
	if err != nil {
		stage := StageFetch
		var se *StageError
		if errors.As(err, &se) {
			stage = se.Stage
		}
		h.logger.Error("Request failed",
			slog.String("stage", stage),
			slog.String("query", r.URL.RawQuery),
			slog.Any("err", err))
		h.metricsCollector.Emit(metrics.MetricEvent{
			Type:  metrics.EventRequestFailed,
			Stage: stage,
		})
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	if _, err := io.WriteString(w, page.Body); err != nil {
		h.logger.Debug("Response write failed", slog.Any("err", err))
		h.metricsCollector.Emit(metrics.MetricEvent{Type: metrics.EventWriteFailed})
		return
	}

	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:     metrics.EventResponseCompleted,
		SortKey:  page.SortKey,
		Duration: time.Since(start),
		Trips:    len(page.Trips),
	})
}

// Build runs the request pipeline for rawQuery: pick the ordering, fetch the
// active trips on one pooled connection, sort and render.
func (h *SortPageHandler) Build(ctx context.Context, rawQuery string) (*Page, error) {
	strat := strategy.ForParam(sortParam(rawQuery))

	h.logger.Debug("Received request", slog.String("sort_type", strat.Key()))
	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:    metrics.EventRequestReceived,
		SortKey: strat.Key(),
	})

	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageAcquire, Err: err}
	}
	defer conn.Release()

	trips, err := store.ActiveTrips(ctx, conn)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}

	strat.Sort(trips)

	body, err := h.renderer.Render(render.NewContext(strat.Key(), trips))
	if err != nil {
		return nil, &StageError{Stage: StageRender, Err: err}
	}

	return &Page{SortKey: strat.Key(), Trips: trips, Body: body}, nil
}

// sortParam returns the raw "sort" value. Pairs are split on '&' and '='
// without percent-decoding, pairs without '=' are skipped, and the last "sort"
// pair wins.
func sortParam(rawQuery string) string {
	var value string
	for _, pair := range strings.Split(rawQuery, "&") {
		key, rest, ok := strings.Cut(pair, "=")
		if !ok || key != strategy.ParamName {
			continue
		}
		value, _, _ = strings.Cut(rest, "=")
	}
	return value
}

func NewSortPageHandler(logger *slog.Logger, pool store.Pool, renderer *render.Renderer, collector *metrics.Collector) *SortPageHandler {
	return &SortPageHandler{
		logger:           logger,
		pool:             pool,
		renderer:         renderer,
		metricsCollector: collector,
	}
}

package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	responseTimes map[string][]time.Duration
	tripsServed   map[string]int64
	failures      map[string]int64
	writeFailures int64
	dbHealthy     bool
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests   int64                     `json:"total_requests"`
	Uptime          time.Duration             `json:"uptime"`
	SortKeys        map[string]SortKeyMetrics `json:"sort_keys"`
	Failures        map[string]int64          `json:"failures"`
	WriteFailures   int64                     `json:"write_failures"`
	DatabaseHealthy bool                      `json:"database_healthy"`
}

type SortKeyMetrics struct {
	Requests    int64         `json:"requests"`
	Completed   int64         `json:"completed"`
	TripsServed int64         `json:"trips_served"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
}

func (m *Metrics) IncrementRequests(sortKey string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests[sortKey]++
}

// RecordResponse stores the duration of a completed page. Only the most
// recent samples per sort key are kept.
func (m *Metrics) RecordResponse(sortKey string, duration time.Duration, trips int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.responseTimes[sortKey] = append(m.responseTimes[sortKey], duration)
	if len(m.responseTimes[sortKey]) > maxSamples {
		m.responseTimes[sortKey] = m.responseTimes[sortKey][1:]
	}
	m.tripsServed[sortKey] += int64(trips)
}

func (m *Metrics) RecordFailure(stage string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failures[stage]++
}

func (m *Metrics) RecordWriteFailure() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.writeFailures++
}

func (m *Metrics) UpdateHealthStatus(healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.dbHealthy = healthy
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:          time.Since(m.startTime),
		SortKeys:        make(map[string]SortKeyMetrics),
		Failures:        make(map[string]int64, len(m.failures)),
		WriteFailures:   m.writeFailures,
		DatabaseHealthy: m.dbHealthy,
	}

	for stage, n := range m.failures {
		snap.Failures[stage] = n
	}

	allKeys := make(map[string]bool)
	for key := range m.requests {
		allKeys[key] = true
	}
	for key := range m.responseTimes {
		allKeys[key] = true
	}

	for key := range allKeys {
		snap.TotalRequests += m.requests[key]

		km := SortKeyMetrics{
			Requests:    m.requests[key],
			TripsServed: m.tripsServed[key],
		}

		durations := m.responseTimes[key]
		km.Completed = int64(len(durations))
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			km.AvgResponse = average(sorted)
			km.P50Response = percentile(sorted, 0.50)
			km.P95Response = percentile(sorted, 0.95)
			km.P99Response = percentile(sorted, 0.99)
		}

		snap.SortKeys[key] = km
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:      make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		tripsServed:   make(map[string]int64),
		failures:      make(map[string]int64),
		dbHealthy:     true,
		startTime:     time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}

package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	requests      int64
	selections    map[string]int64
	responseTimes map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	failures      map[EventType]int64
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                    `json:"total_requests"`
	Uptime        time.Duration            `json:"uptime"`
	Formats       map[string]FormatMetrics `json:"formats"`
	Failures      map[string]int64         `json:"failures"`
	Strategy      string                   `json:"strategy"`
}

type FormatMetrics struct {
	Selections  int64         `json:"selections"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func (m *Metrics) RecordSelection(format string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.selections[format]++
}

// RecordResponse counts a finished request. Failed negotiations are
// recorded under an empty format.
func (m *Metrics) RecordResponse(format string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.requests++
	m.responseTimes[format] = append(m.responseTimes[format], duration)

	if len(m.responseTimes[format]) > maxSamples {
		m.responseTimes[format] = m.responseTimes[format][1:]
	}

	if m.statusCodes[format] == nil {
		m.statusCodes[format] = make(map[int]int64)
	}
	m.statusCodes[format][statusCode]++
}

func (m *Metrics) RecordFailure(reason EventType) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.failures[reason]++
}

func (m *Metrics) Snapshot(strategy string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		TotalRequests: m.requests,
		Uptime:        time.Since(m.startTime),
		Formats:       make(map[string]FormatMetrics),
		Failures:      make(map[string]int64, len(m.failures)),
		Strategy:      strategy,
	}

	for reason, n := range m.failures {
		snap.Failures[string(reason)] = n
	}

	allFormats := make(map[string]bool)
	for format := range m.selections {
		allFormats[format] = true
	}
	for format := range m.responseTimes {
		allFormats[format] = true
	}

	for format := range allFormats {
		fm := FormatMetrics{
			Selections:  m.selections[format],
			StatusCodes: make(map[int]int64, len(m.statusCodes[format])),
		}
		for code, n := range m.statusCodes[format] {
			fm.StatusCodes[code] = n
		}

		durations := m.responseTimes[format]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			fm.AvgResponse = average(sorted)
			fm.P50Response = percentile(sorted, 0.50)
			fm.P95Response = percentile(sorted, 0.95)
			fm.P99Response = percentile(sorted, 0.99)
		}

		snap.Formats[format] = fm
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		selections:    make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		failures:      make(map[EventType]int64),
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

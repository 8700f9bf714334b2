// internal/pkg/monitor/collector.go
package monitor

import (
	"runtime"
	"sync"
	"time"
)

const (
	maxRecentCrashes = 10
	maxSlowRoutes    = 10
)

// CrashRecord captures an unhandled error on a request path
type CrashRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Error     string    `json:"error"`
}

// SlowRoute captures a request that exceeded the slow-route threshold
type SlowRoute struct {
	Timestamp time.Time     `json:"timestamp"`
	Route     string        `json:"route"`
	Duration  time.Duration `json:"duration"`
}

// Snapshot is a point-in-time view of collector state for the health endpoint
type Snapshot struct {
	UptimeSeconds   float64          `json:"uptime_seconds"`
	MemoryAllocMB   float64          `json:"memory_alloc_mb"`
	TotalRequests   int64            `json:"total_requests"`
	StatusClasses   map[string]int64 `json:"status_classes"`
	WebhookReceived int64            `json:"webhook_received"`
	WebhookApplied  int64            `json:"webhook_applied"`
	WebhookSkipped  int64            `json:"webhook_skipped"`
	UnmappedCodes   map[string]int64 `json:"unmapped_codes"`
	RecentCrashes   []CrashRecord    `json:"recent_crashes"`
	SlowRoutes      []SlowRoute      `json:"slow_routes"`
}

// Collector accumulates lightweight in-process request and webhook metrics.
// It is constructed once in main and injected wherever counters are needed;
// all methods are safe for concurrent use.
type Collector struct {
	mu sync.Mutex

	startTime     time.Time
	totalRequests int64
	statusClasses map[string]int64

	webhookReceived int64
	webhookApplied  int64
	webhookSkipped  int64
	unmappedCodes   map[string]int64

	recentCrashes []CrashRecord
	slowRoutes    []SlowRoute
}

// NewCollector creates a metrics collector anchored at the current time
func NewCollector() *Collector {
	return &Collector{
		startTime:     time.Now(),
		statusClasses: map[string]int64{"2xx": 0, "4xx": 0, "404": 0, "5xx": 0},
		unmappedCodes: make(map[string]int64),
	}
}

// RecordRequest counts a completed HTTP request by status class
func (c *Collector) RecordRequest(statusCode int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	switch {
	case statusCode == 404:
		c.statusClasses["404"]++
	case statusCode >= 200 && statusCode < 300:
		c.statusClasses["2xx"]++
	case statusCode >= 400 && statusCode < 500:
		c.statusClasses["4xx"]++
	case statusCode >= 500:
		c.statusClasses["5xx"]++
	}
}

// RecordCrash keeps the most recent unhandled request errors
func (c *Collector) RecordCrash(method, path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record := CrashRecord{
		Timestamp: time.Now(),
		Method:    method,
		Path:      path,
	}
	if err != nil {
		record.Error = err.Error()
	}
	c.recentCrashes = prepend(c.recentCrashes, record, maxRecentCrashes)
}

// RecordSlowRoute keeps the most recent requests that crossed the threshold
func (c *Collector) RecordSlowRoute(method, path string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slowRoutes = prepend(c.slowRoutes, SlowRoute{
		Timestamp: time.Now(),
		Route:     method + " " + path,
		Duration:  duration,
	}, maxSlowRoutes)
}

// RecordWebhookEvent counts a received webhook record and whether it was
// applied to an order or skipped.
func (c *Collector) RecordWebhookEvent(applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.webhookReceived++
	if applied {
		c.webhookApplied++
	} else {
		c.webhookSkipped++
	}
}

// RecordUnmappedStatus counts a carrier status code that has no internal
// status mapping.
func (c *Collector) RecordUnmappedStatus(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unmappedCodes[code]++
}

// Snapshot returns a copy of the current collector state
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snap := Snapshot{
		UptimeSeconds:   time.Since(c.startTime).Seconds(),
		MemoryAllocMB:   float64(mem.Alloc) / 1024 / 1024,
		TotalRequests:   c.totalRequests,
		StatusClasses:   make(map[string]int64, len(c.statusClasses)),
		WebhookReceived: c.webhookReceived,
		WebhookApplied:  c.webhookApplied,
		WebhookSkipped:  c.webhookSkipped,
		UnmappedCodes:   make(map[string]int64, len(c.unmappedCodes)),
		RecentCrashes:   append([]CrashRecord(nil), c.recentCrashes...),
		SlowRoutes:      append([]SlowRoute(nil), c.slowRoutes...),
	}
	for k, v := range c.statusClasses {
		snap.StatusClasses[k] = v
	}
	for k, v := range c.unmappedCodes {
		snap.UnmappedCodes[k] = v
	}
	return snap
}

func prepend[T any](list []T, item T, max int) []T {
	list = append([]T{item}, list...)
	if len(list) > max {
		list = list[:max]
	}
	return list
}

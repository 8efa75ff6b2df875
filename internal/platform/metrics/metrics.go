// Package metrics keeps in-process request counters for the admin-only
// /metrics endpoint. Counters are process-lifetime only; there is no
// external metrics backend.
package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	requests    atomic.Uint64
	serverErrs  atomic.Uint64
	rateLimited atomic.Uint64
	durationMs  atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

// Record counts one finished request. 5xx responses count as errors and
// 429 responses as rate-limited; both still count toward the total.
func (c *Collector) Record(status int, duration time.Duration) {
	c.requests.Add(1)
	if status >= 500 {
		c.serverErrs.Add(1)
	}
	if status == 429 {
		c.rateLimited.Add(1)
	}
	c.durationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	total := c.requests.Load()
	totalMs := c.durationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      c.serverErrs.Load(),
		"rateLimitedTotal": c.rateLimited.Load(),
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
	}
}

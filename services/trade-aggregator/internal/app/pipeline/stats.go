package pipeline

import (
	"sync"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/queue"
)

// WindowStats summarizes the trades handled by the workers during one tick.
type WindowStats struct {
	Trades     uint64
	Malformed  uint64
	Unknown    uint64
	MinLatency time.Duration
	MaxLatency time.Duration
	AvgLatency time.Duration
}

// windowCounter accumulates WindowStats for the current tick.
type windowCounter struct {
	mu           sync.Mutex
	trades       uint64
	malformed    uint64
	unknown      uint64
	latencySum   time.Duration
	latencyMin   time.Duration
	latencyMax   time.Duration
	latencyCount uint64
}

// observe records a parsed trade and the delay between its trade timestamp
// and the moment a worker received it.
func (c *windowCounter) observe(latency time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.trades++
	if c.latencyCount == 0 || latency < c.latencyMin {
		c.latencyMin = latency
	}
	if c.latencyCount == 0 || latency > c.latencyMax {
		c.latencyMax = latency
	}
	c.latencySum += latency
	c.latencyCount++
}

func (c *windowCounter) malformedTrade() {
	c.mu.Lock()
	c.malformed++
	c.mu.Unlock()
}

func (c *windowCounter) unknownSymbol() {
	c.mu.Lock()
	c.unknown++
	c.mu.Unlock()
}

// take returns the stats gathered so far and starts a new window.
func (c *windowCounter) take() WindowStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := WindowStats{
		Trades:     c.trades,
		Malformed:  c.malformed,
		Unknown:    c.unknown,
		MinLatency: c.latencyMin,
		MaxLatency: c.latencyMax,
	}
	if c.latencyCount > 0 {
		s.AvgLatency = c.latencySum / time.Duration(c.latencyCount)
	}

	c.trades, c.malformed, c.unknown = 0, 0, 0
	c.latencySum, c.latencyMin, c.latencyMax, c.latencyCount = 0, 0, 0, 0
	return s
}

func statsFields(minute uint64, w WindowStats, q queue.Stats, depth int) []logger.Field {
	return []logger.Field{
		{Key: "minute", Value: minute},
		{Key: "trades", Value: w.Trades},
		{Key: "malformed", Value: w.Malformed},
		{Key: "unknown_symbol", Value: w.Unknown},
		{Key: "latency_min", Value: w.MinLatency.String()},
		{Key: "latency_max", Value: w.MaxLatency.String()},
		{Key: "latency_avg", Value: w.AvgLatency.String()},
		{Key: "queue_depth", Value: depth},
		{Key: "queue_pushed", Value: q.Pushed},
		{Key: "queue_popped", Value: q.Popped},
		{Key: "queue_wait_avg", Value: q.AvgWait().String()},
		{Key: "queue_wait_max", Value: q.MaxWait.String()},
	}
}

package pipeline

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/queue"
	"github.com/stretchr/testify/assert"
)

func TestWindowCounter(t *testing.T) {
	var c windowCounter

	assert.Equal(t, WindowStats{}, c.take())

	c.observe(30 * time.Millisecond)
	c.observe(10 * time.Millisecond)
	c.observe(20 * time.Millisecond)
	c.malformedTrade()
	c.unknownSymbol()
	c.unknownSymbol()

	s := c.take()
	assert.Equal(t, WindowStats{
		Trades:     3,
		Malformed:  1,
		Unknown:    2,
		MinLatency: 10 * time.Millisecond,
		MaxLatency: 30 * time.Millisecond,
		AvgLatency: 20 * time.Millisecond,
	}, s)

	// take starts a new window
	assert.Equal(t, WindowStats{}, c.take())

	c.observe(-5 * time.Millisecond)
	s = c.take()
	assert.Equal(t, -5*time.Millisecond, s.MinLatency)
	assert.Equal(t, -5*time.Millisecond, s.MaxLatency)
}

func TestStatsFields(t *testing.T) {
	fields := statsFields(3, WindowStats{Trades: 2}, queue.Stats{Pushed: 4, Popped: 2, TotalWait: 2 * time.Second}, 2)

	byKey := map[string]interface{}{}
	for _, f := range fields {
		byKey[f.Key] = f.Value
	}
	assert.Equal(t, uint64(3), byKey["minute"])
	assert.Equal(t, uint64(2), byKey["trades"])
	assert.Equal(t, "1s", byKey["queue_wait_avg"])
	assert.Equal(t, 2, byKey["queue_depth"])
}

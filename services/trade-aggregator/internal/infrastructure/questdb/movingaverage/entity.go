package movingaverage

import (
	"time"

	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
)

// MovingAverage is one row of the moving_averages table.
type MovingAverage struct {
	Symbol      string
	Value       float64
	Total       float64
	SampleCount int32
	FlushedAt   time.Time
}

// FromSnapshot builds a row from a tracker snapshot.
func FromSnapshot(symbol string, s movingaveragev1.Snapshot, flushedAt time.Time) *MovingAverage {
	return &MovingAverage{
		Symbol:      symbol,
		Value:       s.Value,
		Total:       s.Total,
		SampleCount: int32(s.Count),
		FlushedAt:   flushedAt.UTC(),
	}
}

package candlestick

import (
	"time"

	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
)

// Candlestick is one row of the candlesticks table.
type Candlestick struct {
	Symbol     string
	Open       float64
	Close      float64
	Low        float64
	High       float64
	Volume     float64
	TotalPrice float64
	TradeCount int64
	Mean       float64
	FlushedAt  time.Time
}

// FromSnapshot builds a row from a flushed window.
func FromSnapshot(symbol string, s candlestickv1.Snapshot, flushedAt time.Time) *Candlestick {
	return &Candlestick{
		Symbol:     symbol,
		Open:       s.Open,
		Close:      s.Close,
		Low:        s.Min,
		High:       s.Max,
		Volume:     s.Volume,
		TotalPrice: s.PriceSum,
		TradeCount: int64(s.Count),
		Mean:       s.Mean,
		FlushedAt:  flushedAt.UTC(),
	}
}

package candlestick

import "context"

// CandlestickRepository is the interface for the candlestick table.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type CandlestickRepository interface {
	Store(ctx context.Context, candle *Candlestick) error
}

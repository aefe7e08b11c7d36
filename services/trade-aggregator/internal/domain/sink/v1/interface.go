package sinkv1

import (
	"context"
	"time"

	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
)

// Sink durably appends pipeline output. Errors are reported to the caller
// but never stop the pipeline.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=sinkv1_mock
type Sink interface {
	// WriteTransaction appends the verbatim trade with the time it was taken off the queue.
	WriteTransaction(ctx context.Context, event tradev1.Event, receivedAt time.Time) error
	// WriteCandlestick appends one flushed candlestick for symbol.
	WriteCandlestick(ctx context.Context, symbol string, snapshot candlestickv1.Snapshot, flushedAt time.Time) error
	// WriteMovingAverage appends the trailing average for symbol.
	WriteMovingAverage(ctx context.Context, symbol string, snapshot movingaveragev1.Snapshot, flushedAt time.Time) error
	// Close flushes buffered rows and releases resources.
	Close() error
}

// WindowMarker is implemented by sinks that record window boundaries in the
// transaction log.
type WindowMarker interface {
	MarkWindow(ctx context.Context, flushedAt time.Time) error
}

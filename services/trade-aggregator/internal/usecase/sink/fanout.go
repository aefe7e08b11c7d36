package sink

import (
	"context"
	stderrors "errors"
	"time"

	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	sinkv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/sink/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
)

// FanOut writes every row to each of its sinks in order. A failing sink does
// not prevent the remaining sinks from receiving the row.
type FanOut struct {
	sinks []sinkv1.Sink
}

// NewFanOut combines sinks. Nil entries are skipped.
func NewFanOut(sinks ...sinkv1.Sink) *FanOut {
	f := &FanOut{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *FanOut) Len() int { return len(f.sinks) }

// WriteTransaction implements sinkv1.Sink.
func (f *FanOut) WriteTransaction(ctx context.Context, event tradev1.Event, receivedAt time.Time) error {
	return f.each(func(s sinkv1.Sink) error {
		return s.WriteTransaction(ctx, event, receivedAt)
	})
}

// WriteCandlestick implements sinkv1.Sink.
func (f *FanOut) WriteCandlestick(ctx context.Context, symbol string, snapshot candlestickv1.Snapshot, flushedAt time.Time) error {
	return f.each(func(s sinkv1.Sink) error {
		return s.WriteCandlestick(ctx, symbol, snapshot, flushedAt)
	})
}

// WriteMovingAverage implements sinkv1.Sink.
func (f *FanOut) WriteMovingAverage(ctx context.Context, symbol string, snapshot movingaveragev1.Snapshot, flushedAt time.Time) error {
	return f.each(func(s sinkv1.Sink) error {
		return s.WriteMovingAverage(ctx, symbol, snapshot, flushedAt)
	})
}

// MarkWindow forwards to every sink that implements sinkv1.WindowMarker.
func (f *FanOut) MarkWindow(ctx context.Context, flushedAt time.Time) error {
	return f.each(func(s sinkv1.Sink) error {
		if m, ok := s.(sinkv1.WindowMarker); ok {
			return m.MarkWindow(ctx, flushedAt)
		}
		return nil
	})
}

// Close closes every sink.
func (f *FanOut) Close() error {
	return f.each(func(s sinkv1.Sink) error {
		return s.Close()
	})
}

func (f *FanOut) each(fn func(sinkv1.Sink) error) error {
	var errs []error
	for _, s := range f.sinks {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

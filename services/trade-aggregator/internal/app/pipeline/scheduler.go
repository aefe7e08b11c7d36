package pipeline

import (
	"context"

	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	sinkv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/sink/v1"
)

// schedule flushes every symbol once per tick until all workers have
// finished. The partial window in progress at shutdown is dropped unless
// FlushOnShutdown is set.
func (p *Pipeline) schedule(ctx context.Context) {
	defer close(p.scheduled)

	ticks, stop := p.newTicker(p.opts.TickPeriod)
	defer stop()

	var minute uint64
	for {
		select {
		case <-p.workersDone:
			if p.opts.FlushOnShutdown {
				minute++
				p.flush(ctx, minute)
			}
			p.logger.DebugContext(ctx, "scheduler finished", logger.Field{Key: "minutes", Value: minute})
			return
		case <-ticks:
			minute++
			p.flush(ctx, minute)
		}
	}
}

// flush rolls every symbol's candlestick over, feeds the window mean into
// the moving average, and every WindowSize ticks writes the averages.
func (p *Pipeline) flush(ctx context.Context, minute uint64) {
	flushedAt := p.now()
	symbols := p.aggregator.Symbols()

	for _, symbol := range symbols {
		snapshot, err := p.aggregator.FlushAndReset(symbol)
		if err != nil {
			p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "flush_candlestick"}, logger.Field{Key: "symbol", Value: symbol})
			continue
		}

		if err := p.sink.WriteCandlestick(ctx, symbol, snapshot, flushedAt); err != nil {
			p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "write_candlestick"}, logger.Field{Key: "symbol", Value: symbol})
		}

		if err := p.tracker.AddDataPoint(symbol, snapshot.Mean); err != nil {
			p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "add_moving_average"}, logger.Field{Key: "symbol", Value: symbol})
		}
	}

	if marker, ok := p.sink.(sinkv1.WindowMarker); ok {
		if err := marker.MarkWindow(ctx, flushedAt); err != nil {
			p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "mark_window"})
		}
	}

	if size := p.tracker.WindowSize(); size > 0 && minute%uint64(size) == 0 {
		for _, symbol := range symbols {
			snapshot, err := p.tracker.Snapshot(symbol)
			if err != nil {
				p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "moving_average_snapshot"}, logger.Field{Key: "symbol", Value: symbol})
				continue
			}
			if err := p.sink.WriteMovingAverage(ctx, symbol, snapshot, flushedAt); err != nil {
				p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "write_moving_average"}, logger.Field{Key: "symbol", Value: symbol})
			}
		}
	}

	p.logger.InfoContext(ctx, "window flushed", statsFields(minute, p.window.take(), p.queue.Stats(), p.queue.Len())...)
}

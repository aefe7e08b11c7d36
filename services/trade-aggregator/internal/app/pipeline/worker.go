package pipeline

import (
	"context"
	"fmt"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/util"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
)

func (p *Pipeline) work(ctx context.Context, id int) {
	defer p.workers.Done()
	defer p.finished[id].Store(true)

	ctx = util.WithWorkerID(ctx, id)
	p.logger.DebugContext(ctx, "worker started")

	for {
		event, ok := p.queue.Pop()
		if !ok {
			p.logger.DebugContext(ctx, "worker finished")
			return
		}
		p.handle(ctx, event)
	}
}

// handle writes the transaction row and applies the trade to its candlestick.
// A malformed or unknown trade is logged and skipped.
func (p *Pipeline) handle(ctx context.Context, event tradev1.Event) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.ErrorContext(ctx, fmt.Errorf("panic handling trade: %v", r),
				logger.Field{Key: "symbol", Value: event.Symbol},
			)
		}
	}()

	receivedAt := p.now()
	if err := p.sink.WriteTransaction(ctx, event, receivedAt); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "write_transaction"},
			logger.Field{Key: "symbol", Value: event.Symbol},
		)
	}

	trade, err := event.Parse()
	if err != nil {
		p.window.malformedTrade()
		p.logger.WarnContext(ctx, "skipping malformed trade",
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "symbol", Value: event.Symbol},
			logger.Field{Key: "price", Value: event.Price},
			logger.Field{Key: "volume", Value: event.Volume},
		)
		return
	}

	if err := p.aggregator.Update(trade.Symbol, trade.Price, trade.Volume); err != nil {
		if errors.ErrorCodeEquals(err, string(errors.UnknownSymbolError)) {
			p.window.unknownSymbol()
			p.logger.WarnContext(ctx, "trade for unconfigured symbol",
				logger.Field{Key: "symbol", Value: trade.Symbol},
			)
			return
		}
		p.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "update_candlestick"})
		return
	}

	p.window.observe(receivedAt.Sub(trade.ObservedTime()))
}

package bootstrap

import (
	candlestickDomain "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingAverageDomain "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	candlestickUc "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/usecase/candlestick"
	movingAverageUc "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/usecase/movingaverage"
)

// Usecase holds the aggregation state of the configured symbols.
type Usecase struct {
	Aggregator candlestickDomain.Aggregator
	Tracker    movingAverageDomain.Tracker
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() error {
	aggregator, err := candlestickUc.NewAggregator(b.config.Pipeline.Symbols)
	if err != nil {
		return err
	}
	tracker, err := movingAverageUc.NewTracker(b.config.Pipeline.Symbols, b.config.Pipeline.MovingAverageWindow)
	if err != nil {
		return err
	}

	b.Usecase.Aggregator = aggregator
	b.Usecase.Tracker = tracker
	return nil
}

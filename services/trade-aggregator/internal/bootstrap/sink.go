package bootstrap

import (
	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	sinkDomain "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/sink/v1"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/csvlog"
	questdbSink "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb"
	redisSink "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/redis"
	sinkUc "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/usecase/sink"
)

// Sink holds the enabled sinks and their fan-out.
type Sink struct {
	FanOut *sinkUc.FanOut
	Named  map[string]sinkDomain.Sink
}

// registerSink opens every enabled sink. Already opened sinks are closed
// when a later one fails.
func (b *Bootstrap) registerSink() error {
	cfg := b.config.Sink
	b.Sink.Named = make(map[string]sinkDomain.Sink)
	var sinks []sinkDomain.Sink

	if cfg.CSVEnabled {
		csvSink, err := csvlog.NewSink(cfg.CSVDir, b.config.Pipeline.Symbols)
		if err != nil {
			return err
		}
		sinks = append(sinks, csvSink)
		b.Sink.Named["csv"] = csvSink
	}

	if cfg.QuestDBEnabled {
		if b.QuestDB == nil {
			_ = sinkUc.NewFanOut(sinks...).Close()
			return errors.NewErrorDetails("questdb sink enabled without a client", string(errors.ConfigValidationError), "questdb")
		}
		qdb := questdbSink.NewSink(
			b.Repository.TransactionRepository,
			b.Repository.CandlestickRepository,
			b.Repository.MovingAverageRepository,
			cfg.QuestDBBatchSize,
			b.Logger,
		)
		sinks = append(sinks, qdb)
		b.Sink.Named["questdb"] = qdb
	}

	if cfg.RedisEnabled {
		if b.Redis == nil {
			_ = sinkUc.NewFanOut(sinks...).Close()
			return errors.NewErrorDetails("redis sink enabled without a client", string(errors.ConfigValidationError), "redis")
		}
		rs := redisSink.NewSink(b.Redis, redisSink.Options{
			Prefix:       cfg.RedisPrefix,
			StreamMaxLen: cfg.RedisStreamLen,
		})
		sinks = append(sinks, rs)
		b.Sink.Named["redis"] = rs
	}

	b.Sink.FanOut = sinkUc.NewFanOut(sinks...)
	return nil
}

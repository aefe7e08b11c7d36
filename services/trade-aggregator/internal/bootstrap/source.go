package bootstrap

import (
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/consumer"
	sourceDomain "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/source/v1"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/finnhub"
)

// Sources holds the enabled ingestion sources.
type Sources []sourceDomain.Source

// registerSources registers the enabled sources.
func (b *Bootstrap) registerSources(reader consumer.Reader) error {
	if b.config.Finnhub.Enabled {
		src, err := finnhub.NewSource(b.config.Finnhub, b.config.Pipeline.Symbols, b.Logger)
		if err != nil {
			return err
		}
		b.Sources = append(b.Sources, src)
	}

	if b.config.Kafka.Enabled {
		if reader == nil {
			reader = consumer.NewKafkaReader(b.config.Kafka)
		}
		b.Sources = append(b.Sources, consumer.NewTradeConsumer(reader, b.Logger))
	}
	return nil
}

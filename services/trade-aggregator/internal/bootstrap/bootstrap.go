package bootstrap

import (
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
	"github.com/muhammadchandra19/trade-aggregator/pkg/redis"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/consumer"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/pkg/config"
)

// Bootstrap holds the collaborators of the trade aggregator.
type Bootstrap struct {
	Usecase    Usecase
	Repository Repository
	Sink       Sink
	Sources    Sources
	Logger     logger.Interface

	QuestDB questdb.QuestDBClient
	Redis   redis.Client
	config  config.Config
}

// BootstrapConfig is the config for the bootstrap. QuestDB and Redis are nil
// when their sinks are disabled. KafkaReader overrides the reader built from
// config.Kafka.
type BootstrapConfig struct {
	Config      config.Config
	QuestDB     questdb.QuestDBClient
	Redis       redis.Client
	KafkaReader consumer.Reader
	Logger      logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(cfg BootstrapConfig) (Bootstrap, error) {
	b.config = cfg.Config
	b.QuestDB = cfg.QuestDB
	b.Redis = cfg.Redis
	b.Logger = cfg.Logger

	b.registerRepository()
	if err := b.registerUsecase(); err != nil {
		return Bootstrap{}, err
	}
	if err := b.registerSink(); err != nil {
		return Bootstrap{}, err
	}
	if err := b.registerSources(cfg.KafkaReader); err != nil {
		_ = b.Sink.FanOut.Close()
		return Bootstrap{}, err
	}

	return *b, nil
}

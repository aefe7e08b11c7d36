package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
	"github.com/muhammadchandra19/trade-aggregator/pkg/redis"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/consumer"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/finnhub"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig            `envPrefix:"APP_"`
	Pipeline PipelineConfig       `envPrefix:"PIPELINE_"`
	Finnhub  finnhub.Config       `envPrefix:"FINNHUB_"`
	Kafka    consumer.KafkaConfig `envPrefix:"KAFKA_"`
	QuestDB  questdb.Config       `envPrefix:"QUESTDB_"`
	Redis    redis.Config         `envPrefix:"REDIS_"`
	Sink     SinkConfig           `envPrefix:"SINK_"`
	GRPC     GRPCConfig           `envPrefix:"GRPC_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"trade-aggregator"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

// PipelineConfig sizes the queue, the worker pool and the aggregation windows.
type PipelineConfig struct {
	QueueSize           int           `env:"QUEUE_SIZE" envDefault:"100" validate:"gt=0"`
	Workers             int           `env:"WORKERS" envDefault:"2" validate:"gt=0"`
	MovingAverageWindow int           `env:"MOVING_AVERAGE_WINDOW" envDefault:"15" validate:"gt=0"`
	TickPeriod          time.Duration `env:"TICK_PERIOD" envDefault:"1m" validate:"gt=0"`
	Symbols             []string      `env:"SYMBOLS" envSeparator:"," envDefault:"MSFT,AMZN,BINANCE:BTCUSDT,IC MARKETS:1" validate:"min=1,dive,required"`
	FlushOnShutdown     bool          `env:"FLUSH_ON_SHUTDOWN" envDefault:"false"`
}

// SinkConfig selects the output sinks.
type SinkConfig struct {
	CSVEnabled       bool   `env:"CSV_ENABLED" envDefault:"true"`
	CSVDir           string `env:"CSV_DIR" envDefault:"." validate:"required_if=CSVEnabled true"`
	QuestDBEnabled   bool   `env:"QUESTDB_ENABLED" envDefault:"false"`
	QuestDBBatchSize int    `env:"QUESTDB_BATCH_SIZE" envDefault:"500" validate:"omitempty,gt=0"`
	RedisEnabled     bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisPrefix      string `env:"REDIS_PREFIX" envDefault:"aggregator"`
	RedisStreamLen   int64  `env:"REDIS_STREAM_MAX_LEN" envDefault:"10000" validate:"gte=0"`
}

// GRPCConfig configures the health endpoint.
type GRPCConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"true"`
	Address string `env:"ADDRESS" envDefault:":8880" validate:"required_if=Enabled true"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MigrationConfig is the subset of Config the migrate command needs.
type MigrationConfig struct {
	App     AppConfig      `envPrefix:"APP_"`
	QuestDB questdb.Config `envPrefix:"QUESTDB_"`
}

// LoadMigration loads the migrate command configuration from the environment.
func LoadMigration() (*MigrationConfig, error) {
	_ = godotenv.Load()

	cfg := &MigrationConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validator.New().Struct(cfg.QuestDB); err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ConfigValidationError), "questdb")
	}
	return cfg, nil
}

// Validate checks field constraints and that at least one source and one
// sink are enabled.
func (c *Config) Validate() error {
	validate := validator.New()
	for name, section := range map[string]any{
		"app":      c.App,
		"pipeline": c.Pipeline,
		"sink":     c.Sink,
		"grpc":     c.GRPC,
	} {
		if err := validate.Struct(section); err != nil {
			return errors.NewErrorDetails(err.Error(), string(errors.ConfigValidationError), name)
		}
	}

	if c.Finnhub.Enabled {
		if err := validate.Struct(c.Finnhub); err != nil {
			return errors.NewErrorDetails(err.Error(), string(errors.ConfigValidationError), "finnhub")
		}
	}
	if c.Kafka.Enabled {
		if err := validate.Struct(c.Kafka); err != nil {
			return errors.NewErrorDetails(err.Error(), string(errors.ConfigValidationError), "kafka")
		}
	}
	if c.Sink.QuestDBEnabled {
		if err := validate.Struct(c.QuestDB); err != nil {
			return errors.NewErrorDetails(err.Error(), string(errors.ConfigValidationError), "questdb")
		}
	}

	if !c.Finnhub.Enabled && !c.Kafka.Enabled {
		return errors.NewErrorDetails("no trade source enabled, set FINNHUB_ENABLED or KAFKA_ENABLED", string(errors.ConfigValidationError), "sources")
	}
	if !c.Sink.CSVEnabled && !c.Sink.QuestDBEnabled && !c.Sink.RedisEnabled {
		return errors.NewErrorDetails("no sink enabled", string(errors.ConfigValidationError), "sink")
	}
	return nil
}

package consumer

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	sourcev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/source/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	"github.com/segmentio/kafka-go"
)

// KafkaConfig holds the settings of the trades topic reader.
type KafkaConfig struct {
	Enabled       bool     `env:"ENABLED" envDefault:"false"`
	Brokers       []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092" validate:"required,min=1"`
	Topic         string   `env:"TOPIC" envDefault:"trades" validate:"required"`
	ConsumerGroup string   `env:"CONSUMER_GROUP" envDefault:"trade-aggregator" validate:"required"`
}

// Reader is the subset of *kafka.Reader the consumer needs.
//
//go:generate mockgen -source=trade_consumer.go -destination=mock/trade_consumer_mock.go -package=mock
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TradeConsumer feeds trades published on a Kafka topic into the pipeline.
// Offsets are committed only after the pipeline accepted the trade.
type TradeConsumer struct {
	reader   Reader
	logger   logger.Interface
	validate *validator.Validate
}

// NewKafkaReader creates a consumer-group reader for the trades topic.
func NewKafkaReader(config KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
}

// NewTradeConsumer creates a new TradeConsumer.
func NewTradeConsumer(reader Reader, logger logger.Interface) *TradeConsumer {
	return &TradeConsumer{
		reader:   reader,
		logger:   logger,
		validate: validator.New(),
	}
}

func (c *TradeConsumer) Name() string { return "kafka" }

// Run reads until ctx is cancelled, the reader is closed or the deliverer
// refuses a trade. The reader is closed on return.
func (c *TradeConsumer) Run(ctx context.Context, d sourcev1.Deliverer) error {
	c.logger.InfoContext(ctx, "starting trade consumer", logger.Field{
		Key:   "action",
		Value: "trade_consumer_start",
	})
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "trade_consumer_close",
			})
		}
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, io.EOF) {
				c.logger.InfoContext(ctx, "trade consumer stopped", logger.Field{
					Key:   "action",
					Value: "trade_consumer_stop",
				})
				return nil
			}
			return errors.NewErrorDetailsWithObject(
				"failed to fetch trade message: "+err.Error(),
				string(errors.SourceConnectionError),
				"kafka",
				err,
			)
		}

		if event, ok := c.decode(ctx, msg); ok {
			if err := d.Deliver(ctx, event); err != nil {
				return err
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "commit_message",
			})
		}
	}
}

func (c *TradeConsumer) decode(ctx context.Context, msg kafka.Message) (tradev1.Event, bool) {
	var m tradev1.Message
	err := json.Unmarshal(msg.Value, &m)
	if err == nil {
		err = c.validate.Struct(m)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "skipping undecodable trade message",
			logger.Field{Key: "error_code", Value: string(errors.SourceDecodeError)},
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "partition", Value: msg.Partition},
		)
		return tradev1.Event{}, false
	}
	return m.Event(), true
}

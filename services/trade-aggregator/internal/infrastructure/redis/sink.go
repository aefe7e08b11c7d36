package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	redisclient "github.com/muhammadchandra19/trade-aggregator/pkg/redis"
	"github.com/muhammadchandra19/trade-aggregator/pkg/util"
	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	v9 "github.com/redis/go-redis/v9"
)

// Options configures key names and stream trimming.
type Options struct {
	Prefix       string
	StreamMaxLen int64
}

// DefaultOptions returns the default Redis sink options.
func DefaultOptions() Options {
	return Options{Prefix: "aggregator", StreamMaxLen: 10000}
}

// CandlestickMessage is published on the candlestick channel.
type CandlestickMessage struct {
	Symbol string `json:"symbol"`
	candlestickv1.Snapshot
	FlushedAt uint64 `json:"flushed_at"`
}

// MovingAverageMessage is published on the moving-average channel.
type MovingAverageMessage struct {
	Symbol string `json:"symbol"`
	movingaveragev1.Snapshot
	FlushedAt uint64 `json:"flushed_at"`
}

// Sink fans pipeline output out to Redis subscribers. Each trade is appended
// to a capped per-symbol stream; candlesticks and moving averages are
// published on per-symbol channels and the latest value kept in a hash.
type Sink struct {
	client redisclient.Client
	opts   Options
}

// NewSink creates a Redis sink over an already connected client.
func NewSink(client redisclient.Client, opts Options) *Sink {
	if opts.Prefix == "" {
		opts.Prefix = DefaultOptions().Prefix
	}
	return &Sink{client: client, opts: opts}
}

// TradeStream is the stream key for symbol's trades.
func (s *Sink) TradeStream(symbol string) string {
	return s.opts.Prefix + ":trades:" + symbol
}

// CandlestickChannel is the pub/sub channel for symbol's candlesticks.
func (s *Sink) CandlestickChannel(symbol string) string {
	return s.opts.Prefix + ":candlestick:" + symbol
}

// MovingAverageChannel is the pub/sub channel for symbol's moving averages.
func (s *Sink) MovingAverageChannel(symbol string) string {
	return s.opts.Prefix + ":moving_average:" + symbol
}

// LatestKey is the hash holding the most recent value published on channel.
func LatestKey(channel string) string {
	return channel + ":latest"
}

func (s *Sink) WriteTransaction(ctx context.Context, event tradev1.Event, receivedAt time.Time) error {
	args := &v9.XAddArgs{
		Stream: s.TradeStream(event.Symbol),
		Values: map[string]any{
			"price":       event.Price,
			"volume":      event.Volume,
			"timestamp":   event.Timestamp,
			"received_at": strconv.FormatUint(util.Millis(receivedAt), 10),
		},
	}
	if s.opts.StreamMaxLen > 0 {
		args.MaxLen = s.opts.StreamMaxLen
		args.Approx = true
	}

	if _, err := s.client.XAdd(ctx, args); err != nil {
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkWriteError), "transaction", event.Symbol)
	}
	return nil
}

func (s *Sink) WriteCandlestick(ctx context.Context, symbol string, snapshot candlestickv1.Snapshot, flushedAt time.Time) error {
	msg := CandlestickMessage{Symbol: symbol, Snapshot: snapshot, FlushedAt: util.Millis(flushedAt)}
	latest := map[string]any{
		"open":       snapshot.Open,
		"close":      snapshot.Close,
		"low":        snapshot.Min,
		"high":       snapshot.Max,
		"volume":     snapshot.Volume,
		"count":      snapshot.Count,
		"mean":       snapshot.Mean,
		"flushed_at": msg.FlushedAt,
	}
	return s.publish(ctx, s.CandlestickChannel(symbol), symbol, msg, latest)
}

func (s *Sink) WriteMovingAverage(ctx context.Context, symbol string, snapshot movingaveragev1.Snapshot, flushedAt time.Time) error {
	msg := MovingAverageMessage{Symbol: symbol, Snapshot: snapshot, FlushedAt: util.Millis(flushedAt)}
	latest := map[string]any{
		"value":      snapshot.Value,
		"total":      snapshot.Total,
		"count":      snapshot.Count,
		"flushed_at": msg.FlushedAt,
	}
	return s.publish(ctx, s.MovingAverageChannel(symbol), symbol, msg, latest)
}

func (s *Sink) publish(ctx context.Context, channel, symbol string, msg any, latest map[string]any) error {
	buf, err := json.Marshal(msg)
	if err != nil {
		return errors.NewTracer("redis_sink_marshal_error").Wrap(err)
	}

	if _, err := s.client.HSet(ctx, LatestKey(channel), latest); err != nil {
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkWriteError), channel, symbol)
	}
	if _, err := s.client.Publish(ctx, channel, buf); err != nil {
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkWriteError), channel, symbol)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (s *Sink) Close() error {
	return nil
}

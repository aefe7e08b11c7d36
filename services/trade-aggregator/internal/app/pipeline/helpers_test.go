package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	sinkv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/sink/v1"
	sourcev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/source/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/usecase/candlestick"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/usecase/movingaverage"
	"github.com/stretchr/testify/require"
)

// notifyingAggregator reports every applied update on updated.
type notifyingAggregator struct {
	candlestickv1.Aggregator
	updated chan string
}

func (a *notifyingAggregator) Update(symbol string, price, volume float64) error {
	err := a.Aggregator.Update(symbol, price, volume)
	if err == nil {
		a.updated <- symbol
	}
	return err
}

// funcSource runs fn as its feed.
type funcSource struct {
	name string
	fn   func(ctx context.Context, d sourcev1.Deliverer) error
}

func (s *funcSource) Name() string { return s.name }

func (s *funcSource) Run(ctx context.Context, d sourcev1.Deliverer) error {
	return s.fn(ctx, d)
}

func sliceSource(name string, events ...tradev1.Event) *funcSource {
	return &funcSource{name: name, fn: func(ctx context.Context, d sourcev1.Deliverer) error {
		for _, ev := range events {
			if err := d.Deliver(ctx, ev); err != nil {
				return err
			}
		}
		return nil
	}}
}

type candleRow struct {
	symbol   string
	snapshot candlestickv1.Snapshot
}

type averageRow struct {
	symbol   string
	snapshot movingaveragev1.Snapshot
}

// recordingSink keeps every row in memory and announces candlestick writes
// on written.
type recordingSink struct {
	mu           sync.Mutex
	transactions []tradev1.Event
	candles      []candleRow
	averages     []averageRow
	marks        int
	closed       int
	panicOn      string
	written      chan string
}

var _ sinkv1.Sink = (*recordingSink)(nil)
var _ sinkv1.WindowMarker = (*recordingSink)(nil)

func newRecordingSink() *recordingSink {
	return &recordingSink{written: make(chan string, 1024)}
}

func (s *recordingSink) WriteTransaction(_ context.Context, event tradev1.Event, _ time.Time) error {
	if s.panicOn != "" && event.Symbol == s.panicOn {
		panic("sink exploded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = append(s.transactions, event)
	return nil
}

func (s *recordingSink) WriteCandlestick(_ context.Context, symbol string, snapshot candlestickv1.Snapshot, _ time.Time) error {
	s.mu.Lock()
	s.candles = append(s.candles, candleRow{symbol: symbol, snapshot: snapshot})
	s.mu.Unlock()
	s.written <- "candlestick"
	return nil
}

func (s *recordingSink) WriteMovingAverage(_ context.Context, symbol string, snapshot movingaveragev1.Snapshot, _ time.Time) error {
	s.mu.Lock()
	s.averages = append(s.averages, averageRow{symbol: symbol, snapshot: snapshot})
	s.mu.Unlock()
	return nil
}

func (s *recordingSink) MarkWindow(context.Context, time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks++
	return nil
}

func (s *recordingSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

type fixture struct {
	pipeline   *Pipeline
	aggregator *notifyingAggregator
	tracker    *movingaverage.Tracker
	ticks      chan time.Time
}

func newFixture(t *testing.T, opts *Options, sink sinkv1.Sink, symbols []string, window int, sources ...sourcev1.Source) *fixture {
	t.Helper()

	agg, err := candlestick.NewAggregator(symbols)
	require.NoError(t, err)
	tracker, err := movingaverage.NewTracker(symbols, window)
	require.NoError(t, err)

	f := &fixture{
		aggregator: &notifyingAggregator{Aggregator: agg, updated: make(chan string, 100000)},
		tracker:    tracker,
		ticks:      make(chan time.Time),
	}

	f.pipeline, err = New(Dependencies{
		Aggregator: f.aggregator,
		Tracker:    tracker,
		Sink:       sink,
		Sources:    sources,
		Logger:     logger.NewNopLogger(),
	}, opts)
	require.NoError(t, err)

	f.pipeline.newTicker = func(time.Duration) (<-chan time.Time, func()) {
		return f.ticks, func() {}
	}
	return f
}

func trade(symbol, price, volume string) tradev1.Event {
	return tradev1.Event{Symbol: symbol, Price: price, Volume: volume, Timestamp: "1700000000000"}
}

// waitFor blocks until want arrives on ch. It returns an error instead of
// failing the test so sources running on other goroutines can use it.
func waitFor(ch <-chan string, want string) error {
	select {
	case got := <-ch:
		if got != want {
			return fmt.Errorf("got %s, want %s", got, want)
		}
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timed out waiting for %s", want)
	}
}

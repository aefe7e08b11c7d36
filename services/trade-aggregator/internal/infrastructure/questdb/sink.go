package questdb

import (
	"context"
	"sync"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/candlestick"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/movingaverage"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/transaction"
)

// DefaultBatchSize is the number of transactions buffered before an insert.
const DefaultBatchSize = 500

// Sink persists pipeline output to QuestDB. Transactions are buffered and
// inserted in batches, at every window boundary, and on Close. Candlesticks
// and moving averages are written immediately.
type Sink struct {
	transactions transaction.TransactionRepository
	candlesticks candlestick.CandlestickRepository
	averages     movingaverage.MovingAverageRepository
	logger       logger.Interface
	batchSize    int

	mu      sync.Mutex
	pending []*transaction.Transaction
}

// NewSink creates a QuestDB sink. batchSize < 1 selects DefaultBatchSize.
func NewSink(
	transactions transaction.TransactionRepository,
	candlesticks candlestick.CandlestickRepository,
	averages movingaverage.MovingAverageRepository,
	batchSize int,
	logger logger.Interface,
) *Sink {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Sink{
		transactions: transactions,
		candlesticks: candlesticks,
		averages:     averages,
		logger:       logger,
		batchSize:    batchSize,
		pending:      make([]*transaction.Transaction, 0, batchSize),
	}
}

// WriteTransaction buffers the row and inserts the buffer once it is full.
func (s *Sink) WriteTransaction(ctx context.Context, event tradev1.Event, receivedAt time.Time) error {
	s.mu.Lock()
	s.pending = append(s.pending, transaction.FromEvent(event, receivedAt))
	var batch []*transaction.Transaction
	if len(s.pending) >= s.batchSize {
		batch = s.takeLocked()
	}
	s.mu.Unlock()

	return s.store(ctx, batch)
}

func (s *Sink) WriteCandlestick(ctx context.Context, symbol string, snapshot candlestickv1.Snapshot, flushedAt time.Time) error {
	if err := s.candlesticks.Store(ctx, candlestick.FromSnapshot(symbol, snapshot, flushedAt)); err != nil {
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkWriteError), "candlestick", symbol)
	}
	return nil
}

func (s *Sink) WriteMovingAverage(ctx context.Context, symbol string, snapshot movingaveragev1.Snapshot, flushedAt time.Time) error {
	if err := s.averages.Store(ctx, movingaverage.FromSnapshot(symbol, snapshot, flushedAt)); err != nil {
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkWriteError), "moving_average", symbol)
	}
	return nil
}

// MarkWindow inserts whatever transactions are buffered.
func (s *Sink) MarkWindow(ctx context.Context, _ time.Time) error {
	return s.Flush(ctx)
}

// Flush inserts the buffered transactions.
func (s *Sink) Flush(ctx context.Context) error {
	s.mu.Lock()
	batch := s.takeLocked()
	s.mu.Unlock()

	return s.store(ctx, batch)
}

// Close flushes the buffer. The QuestDB client is owned by the caller.
func (s *Sink) Close() error {
	return s.Flush(context.Background())
}

func (s *Sink) takeLocked() []*transaction.Transaction {
	if len(s.pending) == 0 {
		return nil
	}
	batch := s.pending
	s.pending = make([]*transaction.Transaction, 0, s.batchSize)
	return batch
}

func (s *Sink) store(ctx context.Context, batch []*transaction.Transaction) error {
	if len(batch) == 0 {
		return nil
	}

	if err := s.transactions.StoreBatch(ctx, batch); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "action", Value: "store_transactions"},
			logger.Field{Key: "dropped", Value: len(batch)},
		)
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.SinkWriteError), "transaction", len(batch))
	}
	return nil
}

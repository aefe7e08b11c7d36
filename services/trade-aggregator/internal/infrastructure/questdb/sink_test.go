package questdb

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	sinkv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/sink/v1"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/candlestick"
	candlestick_mock "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/candlestick/mock"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/movingaverage"
	movingaverage_mock "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/movingaverage/mock"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/transaction"
	transaction_mock "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/transaction/mock"
	"github.com/stretchr/testify/assert"
)

var _ sinkv1.Sink = (*Sink)(nil)
var _ sinkv1.WindowMarker = (*Sink)(nil)

type sinkMocks struct {
	transactions *transaction_mock.MockTransactionRepository
	candlesticks *candlestick_mock.MockCandlestickRepository
	averages     *movingaverage_mock.MockMovingAverageRepository
}

func newTestSink(ctrl *gomock.Controller, batchSize int) (*Sink, sinkMocks) {
	m := sinkMocks{
		transactions: transaction_mock.NewMockTransactionRepository(ctrl),
		candlesticks: candlestick_mock.NewMockCandlestickRepository(ctrl),
		averages:     movingaverage_mock.NewMockMovingAverageRepository(ctrl),
	}
	return NewSink(m.transactions, m.candlesticks, m.averages, batchSize, logger.NewNopLogger()), m
}

func TestNewSink_DefaultBatchSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newTestSink(ctrl, 0)
	assert.Equal(t, DefaultBatchSize, s.batchSize)
}

func TestSink_WriteTransaction(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	event := tradev1.Event{Symbol: "MSFT", Price: "1", Volume: "2", Timestamp: "3"}
	row := transaction.FromEvent(event, now)

	testCases := []struct {
		name     string
		writes   int
		mockFn   func(m sinkMocks)
		assertFn func(t *testing.T, s *Sink, errs []error)
	}{
		{
			name:   "buffers below batch size",
			writes: 2,
			mockFn: func(m sinkMocks) {},
			assertFn: func(t *testing.T, s *Sink, errs []error) {
				assert.Len(t, s.pending, 2)
				for _, err := range errs {
					assert.NoError(t, err)
				}
			},
		},
		{
			name:   "inserts a full batch",
			writes: 3,
			mockFn: func(m sinkMocks) {
				m.transactions.EXPECT().StoreBatch(gomock.Any(), []*transaction.Transaction{row, row, row}).Return(nil).Times(1)
			},
			assertFn: func(t *testing.T, s *Sink, errs []error) {
				assert.Empty(t, s.pending)
				assert.NoError(t, errs[2])
			},
		},
		{
			name:   "batch failure is a sink error",
			writes: 3,
			mockFn: func(m sinkMocks) {
				m.transactions.EXPECT().StoreBatch(gomock.Any(), gomock.Len(3)).Return(stderrors.New("down"))
			},
			assertFn: func(t *testing.T, s *Sink, errs []error) {
				assert.True(t, errors.ErrorCodeEquals(errs[2], string(errors.SinkWriteError)))
				assert.Empty(t, s.pending)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestSink(ctrl, 3)
			tc.mockFn(m)

			var errs []error
			for i := 0; i < tc.writes; i++ {
				errs = append(errs, s.WriteTransaction(ctx, event, now))
			}
			tc.assertFn(t, s, errs)
		})
	}
}

func TestSink_MarkWindowAndClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	s, m := newTestSink(ctrl, 100)

	gomock.InOrder(
		m.transactions.EXPECT().StoreBatch(gomock.Any(), gomock.Len(1)).Return(nil),
		m.transactions.EXPECT().StoreBatch(gomock.Any(), gomock.Len(2)).Return(nil),
	)

	assert.NoError(t, s.WriteTransaction(ctx, tradev1.Event{Symbol: "A"}, time.Now()))
	assert.NoError(t, s.MarkWindow(ctx, time.Now()))

	// nothing buffered, no insert
	assert.NoError(t, s.MarkWindow(ctx, time.Now()))

	assert.NoError(t, s.WriteTransaction(ctx, tradev1.Event{Symbol: "B"}, time.Now()))
	assert.NoError(t, s.WriteTransaction(ctx, tradev1.Event{Symbol: "C"}, time.Now()))
	assert.NoError(t, s.Close())
}

func TestSink_WriteCandlestickAndMovingAverage(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 1, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		mockFn   func(m sinkMocks)
		callFn   func(s *Sink) error
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "candlestick",
			mockFn: func(m sinkMocks) {
				m.candlesticks.EXPECT().Store(gomock.Any(), &candlestick.Candlestick{
					Symbol: "X", Open: 10, Close: 9, Low: 9, High: 12, Volume: 4,
					TotalPrice: 31, TradeCount: 3, Mean: 31.0 / 3, FlushedAt: at,
				}).Return(nil)
			},
			callFn: func(s *Sink) error {
				return s.WriteCandlestick(ctx, "X", candlestickv1.Snapshot{
					Open: 10, Close: 9, Min: 9, Max: 12, Volume: 4, PriceSum: 31, Count: 3, Mean: 31.0 / 3,
				}, at)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "candlestick failure",
			mockFn: func(m sinkMocks) {
				m.candlesticks.EXPECT().Store(gomock.Any(), gomock.Any()).Return(stderrors.New("down"))
			},
			callFn: func(s *Sink) error {
				return s.WriteCandlestick(ctx, "X", candlestickv1.Snapshot{}, at)
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.SinkWriteError)))
			},
		},
		{
			name: "moving average",
			mockFn: func(m sinkMocks) {
				m.averages.EXPECT().Store(gomock.Any(), &movingaverage.MovingAverage{
					Symbol: "X", Value: 10.5, Total: 21, SampleCount: 2, FlushedAt: at,
				}).Return(nil)
			},
			callFn: func(s *Sink) error {
				return s.WriteMovingAverage(ctx, "X", movingaveragev1.Snapshot{Value: 10.5, Total: 21, Count: 2}, at)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "moving average failure",
			mockFn: func(m sinkMocks) {
				m.averages.EXPECT().Store(gomock.Any(), gomock.Any()).Return(stderrors.New("down"))
			},
			callFn: func(s *Sink) error {
				return s.WriteMovingAverage(ctx, "X", movingaveragev1.Snapshot{}, at)
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.SinkWriteError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			s, m := newTestSink(ctrl, 10)
			tc.mockFn(m)

			tc.assertFn(t, tc.callFn(s))
		})
	}
}

package consumer

import (
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	logger_mock "github.com/muhammadchandra19/trade-aggregator/pkg/logger/mock"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/consumer/mock"
	sourcev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/source/v1"
	sourcev1_mock "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/source/v1/mock"
	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

var _ sourcev1.Source = (*TradeConsumer)(nil)

func TestTradeConsumer_Run(t *testing.T) {
	valid := kafka.Message{
		Offset: 1,
		Key:    []byte("MSFT"),
		Value:  []byte(`{"symbol":"MSFT","price":412.1,"volume":3,"timestamp":1700000000000}`),
	}
	invalid := kafka.Message{Offset: 2, Value: []byte(`{"symbol":"MSFT"}`)}
	event := tradev1.Event{Symbol: "MSFT", Price: "412.1", Volume: "3", Timestamp: "1700000000000"}
	closed := stderrors.New("queue closed")

	testCases := []struct {
		name     string
		mockFn   func(r *mock.MockReader, d *sourcev1_mock.MockDeliverer)
		assertFn func(err error)
	}{
		{
			name: "delivers and commits until end of stream",
			mockFn: func(r *mock.MockReader, d *sourcev1_mock.MockDeliverer) {
				gomock.InOrder(
					r.EXPECT().FetchMessage(gomock.Any()).Return(valid, nil),
					d.EXPECT().Deliver(gomock.Any(), event).Return(nil),
					r.EXPECT().CommitMessages(gomock.Any(), valid).Return(nil),
					r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, io.EOF),
					r.EXPECT().Close().Return(nil),
				)
			},
			assertFn: func(err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "undecodable message is skipped and committed",
			mockFn: func(r *mock.MockReader, d *sourcev1_mock.MockDeliverer) {
				gomock.InOrder(
					r.EXPECT().FetchMessage(gomock.Any()).Return(invalid, nil),
					r.EXPECT().CommitMessages(gomock.Any(), invalid).Return(nil),
					r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, io.EOF),
					r.EXPECT().Close().Return(nil),
				)
			},
			assertFn: func(err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "commit failure does not stop consumption",
			mockFn: func(r *mock.MockReader, d *sourcev1_mock.MockDeliverer) {
				gomock.InOrder(
					r.EXPECT().FetchMessage(gomock.Any()).Return(valid, nil),
					d.EXPECT().Deliver(gomock.Any(), event).Return(nil),
					r.EXPECT().CommitMessages(gomock.Any(), valid).Return(stderrors.New("rebalance")),
					r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, io.EOF),
					r.EXPECT().Close().Return(nil),
				)
			},
			assertFn: func(err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "refused delivery is returned without commit",
			mockFn: func(r *mock.MockReader, d *sourcev1_mock.MockDeliverer) {
				gomock.InOrder(
					r.EXPECT().FetchMessage(gomock.Any()).Return(valid, nil),
					d.EXPECT().Deliver(gomock.Any(), event).Return(closed),
					r.EXPECT().Close().Return(nil),
				)
			},
			assertFn: func(err error) {
				assert.ErrorIs(t, err, closed)
			},
		},
		{
			name: "broker failure",
			mockFn: func(r *mock.MockReader, d *sourcev1_mock.MockDeliverer) {
				gomock.InOrder(
					r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, stderrors.New("connection refused")),
					r.EXPECT().Close().Return(stderrors.New("already closed")),
				)
			},
			assertFn: func(err error) {
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.SourceConnectionError)))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			reader := mock.NewMockReader(ctrl)
			deliverer := sourcev1_mock.NewMockDeliverer(ctrl)
			tc.mockFn(reader, deliverer)

			c := NewTradeConsumer(reader, logger.NewNopLogger())
			tc.assertFn(c.Run(context.Background(), deliverer))
		})
	}
}

func TestTradeConsumer_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	reader := mock.NewMockReader(ctrl)
	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			cancel()
			return kafka.Message{}, ctx.Err()
		}),
		reader.EXPECT().Close().Return(nil),
	)

	c := NewTradeConsumer(reader, logger.NewNopLogger())
	assert.Equal(t, "kafka", c.Name())
	assert.NoError(t, c.Run(ctx, sourcev1_mock.NewMockDeliverer(ctrl)))
}

func TestTradeConsumer_LogsUndecodableMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := mock.NewMockReader(ctrl)
	log := logger_mock.NewMockInterface(ctrl)
	msg := kafka.Message{Partition: 3, Offset: 7, Value: []byte(`{"symbol":`)}

	log.EXPECT().InfoContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(msg, nil),
		log.EXPECT().WarnContext(gomock.Any(), "skipping undecodable trade message",
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, _ string, fields ...logger.Field) {
				assert.Equal(t, logger.Field{Key: "error_code", Value: string(errors.SourceDecodeError)}, fields[0])
				assert.Equal(t, logger.Field{Key: "offset", Value: int64(7)}, fields[2])
				assert.Equal(t, logger.Field{Key: "partition", Value: 3}, fields[3])
			}),
		reader.EXPECT().CommitMessages(gomock.Any(), msg).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, io.EOF),
		reader.EXPECT().Close().Return(nil),
	)

	c := NewTradeConsumer(reader, log)
	assert.NoError(t, c.Run(context.Background(), sourcev1_mock.NewMockDeliverer(ctrl)))
}

package movingaverage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	mock "github.com/muhammadchandra19/trade-aggregator/pkg/questdb/mock"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
	"github.com/stretchr/testify/assert"
)

func TestMovingAverageRepository_Store(t *testing.T) {
	query := `INSERT INTO moving_averages (symbol, value, total, sample_count, flushed_at) VALUES ($1, $2, $3, $4, $5)`
	at := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	avg := FromSnapshot("AMZN", movingaveragev1.Snapshot{Value: 12.5, Total: 25, Count: 2}, at)

	testCases := []struct {
		name     string
		mockFn   func(mock *mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().Exec(gomock.Any(), query, "AMZN", 12.5, 25.0, int32(2), at).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error",
			mockFn: func(mock *mock.MockQuestDBClient) {
				mock.EXPECT().Exec(gomock.Any(), query, "AMZN", 12.5, 25.0, int32(2), at).Return(errors.New("error"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "failed to store moving average")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mock := mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(mock)

			repo := NewRepository(mock)
			tc.assertFn(t, repo.Store(context.Background(), avg))
		})
	}
}

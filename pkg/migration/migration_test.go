package migration

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	mock "github.com/muhammadchandra19/trade-aggregator/pkg/questdb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFiles = fstest.MapFS{
	"20240101000000_create_trades.up.sql":        {Data: []byte("CREATE TABLE trades (x INT);")},
	"20240101000000_create_trades.down.sql":      {Data: []byte("DROP TABLE trades;")},
	"20240102000000_create_candlesticks.up.sql":  {Data: []byte("CREATE TABLE a (x INT);\nCREATE TABLE b (x INT);")},
	"20240102000000_create_candlesticks.down.sql": {Data: []byte("DROP TABLE b;\nDROP TABLE a;")},
	"README.md": {Data: []byte("ignored")},
}

func expectApplied(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface, rows [][2]string) {
	mockClient.EXPECT().Query(gomock.Any(), "SELECT id, name FROM schema_migrations ORDER BY applied_at").Return(mockRows, nil)
	for _, row := range rows {
		row := row
		mockRows.EXPECT().Next().Return(true)
		mockRows.EXPECT().Scan(gomock.Any(), gomock.Any()).DoAndReturn(func(dest ...any) error {
			*dest[0].(*string) = row[0]
			*dest[1].(*string) = row[1]
			return nil
		})
	}
	mockRows.EXPECT().Next().Return(false)
	mockRows.EXPECT().Err().Return(nil)
	mockRows.EXPECT().Close()
}

func TestRunner_LoadMigrations(t *testing.T) {
	runner := NewRunner(nil, logger.NewNopLogger(), testFiles)

	migrations, err := runner.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "20240101000000_create_trades", migrations[0].ID)
	assert.Equal(t, "create_trades", migrations[0].Name)
	assert.Equal(t, 2024, migrations[0].Timestamp.Year())
	assert.Equal(t, "DROP TABLE trades;", migrations[0].DownSQL)
	assert.Equal(t, "create_candlesticks", migrations[1].Name)
}

func TestRunner_MigrateUp(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "applies only pending migrations",
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				mockClient.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(nil) // ledger table
				expectApplied(mockClient, mockRows, [][2]string{{"20240101000000_create_trades", "create_trades"}})
				mockClient.EXPECT().Exec(gomock.Any(), "CREATE TABLE a (x INT)").Return(nil)
				mockClient.EXPECT().Exec(gomock.Any(), "CREATE TABLE b (x INT)").Return(nil)
				mockClient.EXPECT().Exec(gomock.Any(), gomock.Any(), "20240102000000_create_candlesticks", "create_candlesticks").Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "reverted migration is applied again",
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				mockClient.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(nil)
				expectApplied(mockClient, mockRows, [][2]string{
					{"20240101000000_create_trades", "create_trades"},
					{"20240102000000_create_candlesticks", "create_candlesticks"},
					{"20240102000000_create_candlesticks", "reverted:create_candlesticks"},
				})
				mockClient.EXPECT().Exec(gomock.Any(), "CREATE TABLE a (x INT)").Return(nil)
				mockClient.EXPECT().Exec(gomock.Any(), "CREATE TABLE b (x INT)").Return(nil)
				mockClient.EXPECT().Exec(gomock.Any(), gomock.Any(), "20240102000000_create_candlesticks", "create_candlesticks").Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "statement failure stops the run",
			mockFn: func(mockClient *mock.MockQuestDBClient, mockRows *mock.MockRowsInterface) {
				mockClient.EXPECT().Exec(gomock.Any(), gomock.Any()).Return(nil)
				expectApplied(mockClient, mockRows, nil)
				mockClient.EXPECT().Exec(gomock.Any(), "CREATE TABLE trades (x INT)").Return(errors.New("boom"))
			},
			assertFn: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "20240101000000_create_trades")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockClient := mock.NewMockQuestDBClient(ctrl)
			mockRows := mock.NewMockRowsInterface(ctrl)
			tc.mockFn(mockClient, mockRows)

			runner := NewRunner(mockClient, logger.NewNopLogger(), testFiles)
			tc.assertFn(t, runner.MigrateUp(context.Background(), 0))
		})
	}
}

func TestRunner_MigrateDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClient := mock.NewMockQuestDBClient(ctrl)
	mockRows := mock.NewMockRowsInterface(ctrl)

	expectApplied(mockClient, mockRows, [][2]string{
		{"20240101000000_create_trades", "create_trades"},
		{"20240102000000_create_candlesticks", "create_candlesticks"},
	})
	mockClient.EXPECT().Exec(gomock.Any(), "DROP TABLE b").Return(nil)
	mockClient.EXPECT().Exec(gomock.Any(), "DROP TABLE a").Return(nil)
	mockClient.EXPECT().Exec(gomock.Any(), gomock.Any(), "20240102000000_create_candlesticks", "reverted:create_candlesticks").Return(nil)

	runner := NewRunner(mockClient, logger.NewNopLogger(), testFiles)
	require.NoError(t, runner.MigrateDown(context.Background(), 1))

	assert.Error(t, runner.MigrateDown(context.Background(), 0))
}

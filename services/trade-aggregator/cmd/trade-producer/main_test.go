package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTrades(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	trades := generateTrades([]string{"MSFT", "AMZN"}, 50, 100, 2, now)
	require.Len(t, trades, 50)

	for _, m := range trades {
		assert.Contains(t, []string{"MSFT", "AMZN"}, m.Symbol)

		trade, err := m.Event().Parse()
		require.NoError(t, err)
		assert.Greater(t, trade.Price, 0.0)
		assert.Greater(t, trade.Volume, 0.0)
		assert.Equal(t, uint64(1700000000000), trade.ObservedAt)
	}
}

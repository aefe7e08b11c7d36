package candlestick

import (
	"context"
	"fmt"

	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
)

// Repository represents the repository for candlesticks.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new candlestick repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store stores a flushed candlestick.
func (r *Repository) Store(ctx context.Context, candle *Candlestick) error {
	query := `INSERT INTO candlesticks (symbol, open, close, low, high, volume, total_price, trade_count, mean, flushed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	err := r.client.Exec(ctx, query,
		candle.Symbol, candle.Open, candle.Close, candle.Low, candle.High,
		candle.Volume, candle.TotalPrice, candle.TradeCount, candle.Mean, candle.FlushedAt)
	if err != nil {
		return fmt.Errorf("failed to store candlestick: %w", err)
	}

	return nil
}

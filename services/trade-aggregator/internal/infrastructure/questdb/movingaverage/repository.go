package movingaverage

import (
	"context"
	"fmt"

	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
)

// Repository represents the repository for moving averages.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new moving-average repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store stores a moving-average row.
func (r *Repository) Store(ctx context.Context, avg *MovingAverage) error {
	query := `INSERT INTO moving_averages (symbol, value, total, sample_count, flushed_at) VALUES ($1, $2, $3, $4, $5)`

	err := r.client.Exec(ctx, query, avg.Symbol, avg.Value, avg.Total, avg.SampleCount, avg.FlushedAt)
	if err != nil {
		return fmt.Errorf("failed to store moving average: %w", err)
	}

	return nil
}

package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
)

const insertColumns = "INSERT INTO trade_transactions (symbol, price, volume, trade_timestamp, received_at) VALUES "

// Repository represents the repository for the transaction log.
type Repository struct {
	client questdb.QuestDBClient
}

// NewRepository creates a new transaction repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// StoreBatch stores transactions with a single multi-row insert.
func (r *Repository) StoreBatch(ctx context.Context, txs []*Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(insertColumns)
	args := make([]any, 0, len(txs)*5)
	for i, tx := range txs {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, tx.Symbol, tx.Price, tx.Volume, tx.TradeTimestamp, tx.ReceivedAt)
	}

	if err := r.client.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to store %d transactions: %w", len(txs), err)
	}

	return nil
}

package transaction

import (
	"time"

	tradev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/trade/v1"
)

// Transaction is one row of the trade_transactions table. Numeric fields are
// stored verbatim.
type Transaction struct {
	Symbol         string
	Price          string
	Volume         string
	TradeTimestamp string
	ReceivedAt     time.Time
}

// FromEvent builds a row from a queued trade.
func FromEvent(event tradev1.Event, receivedAt time.Time) *Transaction {
	return &Transaction{
		Symbol:         event.Symbol,
		Price:          event.Price,
		Volume:         event.Volume,
		TradeTimestamp: event.Timestamp,
		ReceivedAt:     receivedAt.UTC(),
	}
}

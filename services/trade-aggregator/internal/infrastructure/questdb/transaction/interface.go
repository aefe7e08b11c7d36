package transaction

import "context"

// TransactionRepository is the interface for the transaction log.
//
//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock
type TransactionRepository interface {
	StoreBatch(ctx context.Context, txs []*Transaction) error
}

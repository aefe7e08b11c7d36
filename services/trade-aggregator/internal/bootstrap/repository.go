package bootstrap

import (
	candlestickInfra "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/candlestick"
	movingAverageInfra "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/movingaverage"
	transactionInfra "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/infrastructure/questdb/transaction"
)

// Repository holds the QuestDB repositories. All are nil without a QuestDB client.
type Repository struct {
	TransactionRepository   transactionInfra.TransactionRepository
	CandlestickRepository   candlestickInfra.CandlestickRepository
	MovingAverageRepository movingAverageInfra.MovingAverageRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	if b.QuestDB == nil {
		return
	}
	b.Repository.TransactionRepository = transactionInfra.NewRepository(b.QuestDB)
	b.Repository.CandlestickRepository = candlestickInfra.NewRepository(b.QuestDB)
	b.Repository.MovingAverageRepository = movingAverageInfra.NewRepository(b.QuestDB)
}

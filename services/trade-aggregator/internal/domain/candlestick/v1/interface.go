package candlestickv1

// Aggregator holds one bucket per configured symbol. Updates and flushes of
// the same symbol are mutually exclusive.
type Aggregator interface {
	Update(symbol string, price, volume float64) error
	FlushAndReset(symbol string) (Snapshot, error)
	Mean(symbol string) (float64, error)
	Symbols() []string
}

package candlestick

import (
	"fmt"
	"sync"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	candlestickv1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/candlestick/v1"
)

// ErrUnknownSymbol is returned for a symbol outside the configured set.
var ErrUnknownSymbol = errors.NewErrorDetails("unknown symbol", string(errors.UnknownSymbolError), "symbol")

type entry struct {
	mu     sync.Mutex
	bucket *candlestickv1.Bucket
}

// Aggregator is the per-symbol candlestick registry. The symbol set is fixed
// at construction so the map itself is read-only afterwards.
type Aggregator struct {
	symbols []string
	entries map[string]*entry
}

// NewAggregator creates one empty bucket per distinct symbol.
func NewAggregator(symbols []string) (*Aggregator, error) {
	if len(symbols) == 0 {
		return nil, errors.NewErrorDetails("at least one symbol is required", string(errors.ConfigValidationError), "symbols")
	}

	a := &Aggregator{entries: make(map[string]*entry, len(symbols))}
	for _, s := range symbols {
		if s == "" {
			return nil, errors.NewErrorDetails("symbol must not be empty", string(errors.ConfigValidationError), "symbols")
		}
		if _, ok := a.entries[s]; ok {
			continue
		}
		a.entries[s] = &entry{bucket: candlestickv1.NewBucket()}
		a.symbols = append(a.symbols, s)
	}

	return a, nil
}

func (a *Aggregator) lookup(symbol string) (*entry, error) {
	e, ok := a.entries[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	return e, nil
}

// Update applies a trade to the symbol's current window.
func (a *Aggregator) Update(symbol string, price, volume float64) error {
	e, err := a.lookup(symbol)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.bucket.Update(price, volume)
	e.mu.Unlock()
	return nil
}

// FlushAndReset snapshots the symbol's window and starts a new one.
func (a *Aggregator) FlushAndReset(symbol string) (candlestickv1.Snapshot, error) {
	e, err := a.lookup(symbol)
	if err != nil {
		return candlestickv1.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bucket.FlushAndReset(), nil
}

// Mean returns the running mean of the symbol's current window.
func (a *Aggregator) Mean(symbol string) (float64, error) {
	e, err := a.lookup(symbol)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bucket.Mean(), nil
}

// Symbols returns the configured symbols in configuration order.
func (a *Aggregator) Symbols() []string {
	out := make([]string, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// Has reports whether symbol is in the configured set.
func (a *Aggregator) Has(symbol string) bool {
	_, ok := a.entries[symbol]
	return ok
}

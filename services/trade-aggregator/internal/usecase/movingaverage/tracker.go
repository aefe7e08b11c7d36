package movingaverage

import (
	"fmt"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	movingaveragev1 "github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/internal/domain/movingaverage/v1"
)

// Tracker keeps one moving-average window per symbol. It is owned by the
// scheduler goroutine and is not safe for concurrent use.
type Tracker struct {
	size    int
	windows map[string]*movingaveragev1.Window
}

// NewTracker allocates a window of size entries for each symbol.
func NewTracker(symbols []string, size int) (*Tracker, error) {
	t := &Tracker{size: size, windows: make(map[string]*movingaveragev1.Window, len(symbols))}
	for _, s := range symbols {
		w, err := movingaveragev1.NewWindow(size)
		if err != nil {
			return nil, errors.NewErrorDetails(err.Error(), string(errors.ConfigValidationError), "moving_average_window")
		}
		t.windows[s] = w
	}
	return t, nil
}

func (t *Tracker) window(symbol string) (*movingaveragev1.Window, error) {
	w, ok := t.windows[symbol]
	if !ok {
		return nil, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("no moving average for symbol %q", symbol),
			string(errors.UnknownSymbolError),
			"symbol",
			symbol,
		)
	}
	return w, nil
}

// AddDataPoint feeds one window mean for symbol.
func (t *Tracker) AddDataPoint(symbol string, mean float64) error {
	w, err := t.window(symbol)
	if err != nil {
		return err
	}
	w.AddDataPoint(mean)
	return nil
}

func (t *Tracker) Snapshot(symbol string) (movingaveragev1.Snapshot, error) {
	w, err := t.window(symbol)
	if err != nil {
		return movingaveragev1.Snapshot{}, err
	}
	return w.Snapshot(), nil
}

// WindowSize is the number of means each window retains.
func (t *Tracker) WindowSize() int {
	return t.size
}

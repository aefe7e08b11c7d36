package movingaveragev1

import "errors"

// DefaultWindowSize is the number of per-minute means retained.
const DefaultWindowSize = 15

var ErrInvalidWindowSize = errors.New("window size must be positive")

// Window is a fixed-capacity circular accumulator of per-window means.
type Window struct {
	values []float64
	next   int
	count  int
	sum    float64
}

// Snapshot is the state reported in a moving-average row.
type Snapshot struct {
	Value float64 `json:"value"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// NewWindow allocates a window holding at most size means.
func NewWindow(size int) (*Window, error) {
	if size < 1 {
		return nil, ErrInvalidWindowSize
	}
	return &Window{values: make([]float64, size)}, nil
}

// AddDataPoint records a window mean. A mean of exactly 0 marks a window
// without trades and is ignored.
func (w *Window) AddDataPoint(mean float64) {
	if mean == 0 {
		return
	}

	if w.count < len(w.values) {
		w.count++
	} else {
		w.sum -= w.values[w.next]
	}

	w.values[w.next] = mean
	w.sum += mean
	w.next = (w.next + 1) % len(w.values)
}

// Average returns the mean of the retained values, or 0 when empty.
func (w *Window) Average() float64 {
	if w.count == 0 {
		return 0
	}
	return w.sum / float64(w.count)
}

func (w *Window) Sum() float64 { return w.sum }

func (w *Window) Count() int { return w.count }

// Len is the capacity of the window.
func (w *Window) Len() int { return len(w.values) }

func (w *Window) Snapshot() Snapshot {
	return Snapshot{
		Value: w.Average(),
		Total: w.sum,
		Count: w.count,
	}
}

package candlestickv1

// Bucket accumulates the OHLCV state of one symbol for the current window.
// A Bucket is not safe for concurrent use; the aggregator serializes access.
type Bucket struct {
	Open      float64
	Close     float64
	Min       float64
	Max       float64
	VolumeSum float64
	PriceSum  float64
	Count     uint64
	HasData   bool
}

// Snapshot is a flushed candlestick.
type Snapshot struct {
	Open     float64 `json:"open"`
	Close    float64 `json:"close"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Volume   float64 `json:"volume"`
	PriceSum float64 `json:"price_sum"`
	Count    uint64  `json:"count"`
	Mean     float64 `json:"mean"`
	HasData  bool    `json:"has_data"`
}

// NewBucket returns an empty bucket.
func NewBucket() *Bucket {
	return &Bucket{}
}

// Update applies one trade to the bucket.
func (b *Bucket) Update(price, volume float64) {
	if !b.HasData {
		b.HasData = true
		b.Open = price
		b.Close = price
		b.Min = price
		b.Max = price
		b.PriceSum = price
		b.VolumeSum = volume
		b.Count = 1
		return
	}

	b.Close = price
	if price < b.Min {
		b.Min = price
	}
	if price > b.Max {
		b.Max = price
	}
	b.PriceSum += price
	b.VolumeSum += volume
	b.Count++
}

// Mean returns the average trade price of the window, or 0 when empty.
func (b *Bucket) Mean() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.PriceSum / float64(b.Count)
}

// Snapshot copies the current state without resetting it.
func (b *Bucket) Snapshot() Snapshot {
	return Snapshot{
		Open:     b.Open,
		Close:    b.Close,
		Min:      b.Min,
		Max:      b.Max,
		Volume:   b.VolumeSum,
		PriceSum: b.PriceSum,
		Count:    b.Count,
		Mean:     b.Mean(),
		HasData:  b.HasData,
	}
}

// Reset returns the bucket to the empty state.
func (b *Bucket) Reset() {
	*b = Bucket{}
}

// FlushAndReset returns the window's snapshot and empties the bucket.
func (b *Bucket) FlushAndReset() Snapshot {
	s := b.Snapshot()
	b.Reset()
	return s
}

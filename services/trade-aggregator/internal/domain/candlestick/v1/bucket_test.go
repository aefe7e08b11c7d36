package candlestickv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBucket(t *testing.T) {
	b := NewBucket()

	assert.False(t, b.HasData)
	assert.Equal(t, uint64(0), b.Count)
	assert.Equal(t, 0.0, b.Mean())
}

func TestBucket_Update(t *testing.T) {
	testCases := []struct {
		name     string
		prices   []float64
		volumes  []float64
		expected Snapshot
	}{
		{
			name:    "first update opens the window",
			prices:  []float64{10},
			volumes: []float64{1},
			expected: Snapshot{
				Open: 10, Close: 10, Min: 10, Max: 10,
				Volume: 1, PriceSum: 10, Count: 1, Mean: 10, HasData: true,
			},
		},
		{
			name:    "rising then falling",
			prices:  []float64{10, 12, 9},
			volumes: []float64{1, 2, 1},
			expected: Snapshot{
				Open: 10, Close: 9, Min: 9, Max: 12,
				Volume: 4, PriceSum: 31, Count: 3, Mean: 31.0 / 3, HasData: true,
			},
		},
		{
			name:    "zero price still counts",
			prices:  []float64{0, 5},
			volumes: []float64{3, 3},
			expected: Snapshot{
				Open: 0, Close: 5, Min: 0, Max: 5,
				Volume: 6, PriceSum: 5, Count: 2, Mean: 2.5, HasData: true,
			},
		},
		{
			name:    "ties keep extremum",
			prices:  []float64{7, 7, 7},
			volumes: []float64{1, 1, 1},
			expected: Snapshot{
				Open: 7, Close: 7, Min: 7, Max: 7,
				Volume: 3, PriceSum: 21, Count: 3, Mean: 7, HasData: true,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBucket()
			for i := range tc.prices {
				b.Update(tc.prices[i], tc.volumes[i])
			}

			got := b.Snapshot()
			assert.Equal(t, tc.expected.Open, got.Open)
			assert.Equal(t, tc.expected.Close, got.Close)
			assert.Equal(t, tc.expected.Min, got.Min)
			assert.Equal(t, tc.expected.Max, got.Max)
			assert.Equal(t, tc.expected.Volume, got.Volume)
			assert.Equal(t, tc.expected.PriceSum, got.PriceSum)
			assert.Equal(t, tc.expected.Count, got.Count)
			assert.InDelta(t, tc.expected.Mean, got.Mean, 1e-12)
			assert.Equal(t, tc.expected.HasData, got.HasData)
		})
	}
}

func TestBucket_FlushAndReset(t *testing.T) {
	b := NewBucket()
	b.Update(10, 1)
	b.Update(12, 2)

	s := b.FlushAndReset()
	assert.Equal(t, uint64(2), s.Count)
	assert.Equal(t, 11.0, s.Mean)

	t.Run("mean after reset is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, b.Mean())
		assert.False(t, b.HasData)
	})

	t.Run("next update behaves as first", func(t *testing.T) {
		b.Update(3, 4)
		s := b.Snapshot()
		assert.Equal(t, 3.0, s.Open)
		assert.Equal(t, 3.0, s.Min)
		assert.Equal(t, 3.0, s.Max)
		assert.Equal(t, 4.0, s.Volume)
		assert.Equal(t, uint64(1), s.Count)
	})

	t.Run("flushing an empty bucket", func(t *testing.T) {
		b.Reset()
		s := b.FlushAndReset()
		assert.Equal(t, Snapshot{}, s)
	})
}

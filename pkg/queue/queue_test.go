package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		wantErr  bool
	}{
		{name: "zero capacity", capacity: 0, wantErr: true},
		{name: "negative capacity", capacity: -3, wantErr: true},
		{name: "single slot", capacity: 1},
		{name: "default size", capacity: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := New[int](tc.capacity)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.QueueInitError)))
				assert.Nil(t, q)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.capacity, q.Cap())
			assert.True(t, q.Empty())
			assert.False(t, q.Full())
		})
	}
}

func TestQueue_FIFOAndWrapAround(t *testing.T) {
	q, err := New[int](3)
	require.NoError(t, err)
	ctx := context.Background()

	// several laps around the ring
	next := 0
	for round := 0; round < 5; round++ {
		for i := 0; i < 3; i++ {
			require.NoError(t, q.Push(ctx, round*3+i))
		}
		assert.True(t, q.Full())
		assert.False(t, q.Empty())

		for i := 0; i < 3; i++ {
			v, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, next, v)
			next++
		}
		assert.True(t, q.Empty())
		assert.False(t, q.Full())
	}
}

func TestQueue_FullAndEmptyExclusive(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)

	require.NoError(t, q.Push(context.Background(), 1))
	assert.False(t, q.Full())
	assert.False(t, q.Empty())
	assert.Equal(t, 1, q.Len())
}

func TestQueue_PushBlocksWhileFull(t *testing.T) {
	q, err := New[string](1)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, "a"))

	pushed := make(chan struct{})
	go func() {
		assert.NoError(t, q.Push(ctx, "b"))
		close(pushed)
	}()

	select {
	case <-pushed:
		t.Fatal("push completed while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	v, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	select {
	case <-pushed:
	case <-time.After(2 * time.Second):
		t.Fatal("push did not resume after space became available")
	}

	v, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestQueue_PushCancelledWhileBlocked(t *testing.T) {
	q, err := New[int](1)
	require.NoError(t, err)
	require.NoError(t, q.Push(context.Background(), 1))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- q.Push(ctx, 2) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked push ignored cancellation")
	}
	assert.Equal(t, 1, q.Len())
}

func TestQueue_CloseWakesAllConsumers(t *testing.T) {
	q, err := New[int](4)
	require.NoError(t, err)

	const consumers = 8
	var wg sync.WaitGroup
	var sentinels atomic.Int32
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := q.Pop(); !ok {
				sentinels.Add(1)
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()
	q.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumers stranded after close")
	}
	assert.Equal(t, int32(consumers), sentinels.Load())
	assert.True(t, q.Closed())
}

func TestQueue_CloseDrainsRemaining(t *testing.T) {
	q, err := New[int](4)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, q.Push(ctx, 1))
	require.NoError(t, q.Push(ctx, 2))
	q.Close()

	assert.ErrorIs(t, q.Push(ctx, 3), ErrClosed)

	v, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	v, ok = q.Pop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = q.Pop()
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestQueue_CloseReleasesBlockedProducer(t *testing.T) {
	q, err := New[int](1)
	require.NoError(t, err)
	require.NoError(t, q.Push(context.Background(), 1))

	errCh := make(chan error, 1)
	go func() { errCh <- q.Push(context.Background(), 2) }()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked producer stranded after close")
	}
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	const (
		capacity  = 4
		producers = 4
		perProd   = 500
		consumers = 3
	)

	type item struct {
		producer int
		seq      int
	}

	q, err := New[item](capacity)
	require.NoError(t, err)
	ctx := context.Background()

	var prodWG sync.WaitGroup
	for p := 0; p < producers; p++ {
		prodWG.Add(1)
		go func(p int) {
			defer prodWG.Done()
			for i := 0; i < perProd; i++ {
				assert.NoError(t, q.Push(ctx, item{producer: p, seq: i}))
				assert.LessOrEqual(t, q.Len(), capacity)
			}
		}(p)
	}

	var mu sync.Mutex
	seen := make(map[int][]int)

	var consWG sync.WaitGroup
	for c := 0; c < consumers; c++ {
		consWG.Add(1)
		go func() {
			defer consWG.Done()
			for {
				it, ok := q.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[it.producer] = append(seen[it.producer], it.seq)
				mu.Unlock()
			}
		}()
	}

	prodWG.Wait()
	q.Close()
	consWG.Wait()

	total := 0
	for p := 0; p < producers; p++ {
		total += len(seen[p])
	}
	assert.Equal(t, producers*perProd, total)
	assert.True(t, q.Empty())

	stats := q.Stats()
	assert.Equal(t, uint64(producers*perProd), stats.Pushed)
	assert.Equal(t, uint64(producers*perProd), stats.Popped)
}

func TestQueue_SingleConsumerPreservesProducerOrder(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)

	go func() {
		for i := 0; i < 1000; i++ {
			_ = q.Push(context.Background(), i)
		}
		q.Close()
	}()

	expected := 0
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		require.Equal(t, expected, v)
		expected++
	}
	assert.Equal(t, 1000, expected)
}

func TestQueue_StatsMeasuresDwellTime(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return clock }

	require.NoError(t, q.Push(context.Background(), 1))
	require.NoError(t, q.Push(context.Background(), 2))

	clock = clock.Add(30 * time.Millisecond)
	_, _ = q.Pop()
	clock = clock.Add(10 * time.Millisecond)
	_, _ = q.Pop()

	stats := q.Stats()
	assert.Equal(t, uint64(2), stats.Pushed)
	assert.Equal(t, uint64(2), stats.Popped)
	assert.Equal(t, 40*time.Millisecond, stats.MaxWait)
	assert.Equal(t, 70*time.Millisecond, stats.TotalWait)
	assert.Equal(t, 35*time.Millisecond, stats.AvgWait())
	assert.Equal(t, time.Duration(0), Stats{}.AvgWait())
}

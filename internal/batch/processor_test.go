package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 125)
	for i := range items {
		items[i] = i
	}

	newDefault := func(t *testing.T) *Processor[int] {
		t.Helper()
		p, err := NewProcessor[int](DefaultBatchSize)
		require.NoError(t, err)
		return p
	}

	t.Run("Sequential", func(t *testing.T) {
		p := newDefault(t)
		var seen []int
		var sizes []int

		callback := func(_ context.Context, batch []int, batchIndex int) error {
			assert.Equal(t, len(sizes), batchIndex)
			sizes = append(sizes, len(batch))
			seen = append(seen, batch...)
			return nil
		}

		require.NoError(t, p.Process(context.Background(), items, callback))
		assert.Equal(t, []int{50, 50, 25}, sizes)
		assert.Equal(t, items, seen, "order must be preserved")
	})

	t.Run("ProgressCallback", func(t *testing.T) {
		var percents []float64
		var done []string
		p, err := NewProcessor[int](100)
		require.NoError(t, err)
		p.WithProgressCallback(func(progress *Progress) {
			percents = append(percents, progress.PercentComplete())
			done = append(done, fmt.Sprintf("%d/%d", progress.ProcessedBatches, progress.TotalBatches))
		})

		require.NoError(t, p.Process(context.Background(), items, func(context.Context, []int, int) error {
			return nil
		}))
		assert.Equal(t, []float64{80, 100}, percents)
		assert.Equal(t, []string{"1/2", "2/2"}, done)
	})

	t.Run("ErrorHandling", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		calls := 0
		callback := func(_ context.Context, _ []int, batchIndex int) error {
			calls++
			if batchIndex == 1 {
				return errors.New("fail")
			}
			return nil
		}

		err := p.Process(context.Background(), items, callback)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, 2, calls)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := newDefault(t)
		err := p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p := newDefault(t)
		err := p.Process(context.Background(), nil, nil)
		assert.Equal(t, ErrEmptyItems, err)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p := newDefault(t)
		err := p.Process(context.Background(), items, nil)
		assert.Equal(t, ErrNilCallback, err)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](2000)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10, 10)

	assert.Equal(t, 0.0, p.PercentComplete())
	assert.False(t, p.IsComplete())

	p.AddProcessed(10)
	assert.Equal(t, 10.0, p.PercentComplete())
	assert.Equal(t, 10, p.ProcessedItems)
	assert.Equal(t, 1, p.ProcessedBatches)

	p.AddProcessed(90)
	assert.Equal(t, 100.0, p.PercentComplete())
	assert.True(t, p.IsComplete())
	assert.GreaterOrEqual(t, p.ElapsedTime(), time.Duration(0))

	assert.Equal(t, 0.0, NewProgress(0, 0, 10).PercentComplete())
}

func TestProcessor_CalculateBatches(t *testing.T) {
	p, _ := NewProcessor[int](10)
	batches := p.CalculateBatches(25)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])
	assert.Equal(t, 10, p.GetBatchSize())
	assert.Empty(t, p.CalculateBatches(0))
}

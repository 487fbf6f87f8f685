package batch

import (
	"context"
	"errors"
	"fmt"
)

// Batch size limits.
const (
	// DefaultBatchSize is the number of items per batch used by the organizer.
	DefaultBatchSize = 50

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// Callback processes a single batch. batchIndex is 0-based.
type Callback[T any] func(ctx context.Context, batch []T, batchIndex int) error

// ProgressCallback is invoked after each batch completes.
type ProgressCallback func(progress *Progress)

// Processor splits items into fixed-size batches and processes them in order.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor creates a batch processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// Process runs callback over items batch by batch and stops on the first
// error returned by the callback or on context cancellation.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}

	bounds := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(bounds), p.batchSize)

	for batchIndex, b := range bounds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch := items[b[0]:b[1]]
		if err := callback(ctx, batch, batchIndex); err != nil {
			return fmt.Errorf("batch %d failed: %w", batchIndex, err)
		}

		progress.AddProcessed(len(batch))
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}

	return nil
}

// GetBatchSize returns the configured batch size.
func (p *Processor[T]) GetBatchSize() int {
	return p.batchSize
}

// CalculateBatches returns the [start, end) boundaries for totalItems items.
func (p *Processor[T]) CalculateBatches(totalItems int) [][2]int {
	totalBatches := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		totalBatches++
	}

	batches := make([][2]int, totalBatches)
	for i := range totalBatches {
		start := i * p.batchSize
		end := min(start+p.batchSize, totalItems)
		batches[i] = [2]int{start, end}
	}
	return batches
}

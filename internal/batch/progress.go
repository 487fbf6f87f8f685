package batch

import "time"

// percentMultiplier converts a ratio to a percentage (0-100).
const percentMultiplier = 100

// Progress tracks how far a Process call has advanced.
type Progress struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartTime        time.Time
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems, totalBatches, batchSize int) *Progress {
	return &Progress{
		TotalItems:   totalItems,
		TotalBatches: totalBatches,
		BatchSize:    batchSize,
		StartTime:    time.Now(),
	}
}

// AddProcessed records one finished batch of itemsProcessed items.
func (p *Progress) AddProcessed(itemsProcessed int) {
	p.ProcessedItems += itemsProcessed
	p.ProcessedBatches++
}

// PercentComplete returns the completion percentage (0-100).
func (p *Progress) PercentComplete() float64 {
	if p.TotalItems == 0 {
		return 0
	}
	return (float64(p.ProcessedItems) / float64(p.TotalItems)) * percentMultiplier
}

// IsComplete returns true once every item has been processed.
func (p *Progress) IsComplete() bool {
	return p.ProcessedItems >= p.TotalItems
}

// ElapsedTime returns the time since processing started.
func (p *Progress) ElapsedTime() time.Duration {
	return time.Since(p.StartTime)
}

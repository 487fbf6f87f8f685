// Package batch splits a list of work items into fixed-size groups and hands
// each group to a callback in order.
//
// Batching here bounds the size of progress output rather than memory: every
// item is still processed sequentially, in the order given, on the calling
// goroutine. Cancellation is checked between batches.
package batch

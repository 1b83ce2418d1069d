// Package engine implements the metrics aggregation engine: pure functions
// that transform issue and pull request batches into statistical summaries.
// Analyzers perform no I/O and keep no state; the same batch can be run
// through any number of window filters concurrently.
package engine

import "sort"

// Median returns the order-based median of values: the middle element for
// odd-length input, the mean of the two middle elements for even-length
// input, 0 for empty input. The caller's slice is not mutated.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Percentage returns part/total as a percentage, 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

package report

import (
	"io"
	"strconv"

	"github.com/nao1215/rpvsharvest/internal/crawler"
	"github.com/nao1215/rpvsharvest/internal/model"
)

// DefaultTop is the number of tally rows shown before the rest is folded
// into a single "Other" row.
const DefaultTop = 10

// otherLabel is the label of the folded tally row.
const otherLabel = "Other"

// Writer defines the interface for report output.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files or stdout with the same
// API.
type Writer interface {
	// Write outputs dataset statistics.
	// Returns the number of bytes written and any error encountered.
	Write(stats *model.DatasetStats) (int, error)

	// WriteSummary outputs the outcome tally of a crawl run.
	WriteSummary(summary crawler.Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the statistics to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(stats *model.DatasetStats) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(stats)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the crawl summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary crawler.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// topCounts returns the first n tallies and folds the rest into one row.
// n <= 0 returns counts unchanged.
func topCounts(counts []model.Count, n int) []model.Count {
	if n <= 0 || len(counts) <= n {
		return counts
	}
	out := make([]model.Count, 0, n+1)
	out = append(out, counts[:n]...)
	rest := 0
	for _, c := range counts[n:] {
		rest += c.Value
	}
	return append(out, model.Count{Label: otherLabel, Value: rest})
}

// formatIDs renders warning IDs as a comma-separated list.
func formatIDs(ids []int) string {
	buf := make([]byte, 0, len(ids)*6)
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return string(buf)
}

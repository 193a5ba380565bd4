package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/rpvsharvest/internal/crawler"
	"github.com/nao1215/rpvsharvest/internal/model"
)

// ruleWidth is the width of section separators.
const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors because the output is often piped to files or mail.
type SimpleWriter struct {
	baseWriter

	// top limits the number of tally rows per section.
	top int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTop sets the number of tally rows shown per section.
// 0 shows every row.
func WithTop(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.top = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTop,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the statistics in human-readable format.
func (w *SimpleWriter) Write(stats *model.DatasetStats) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "RPVS DATASET REPORT")
	fmt.Fprintf(&sb, "Generated:        %s\n", stats.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Records:          %d\n", stats.RecordCount)

	if !stats.HasRecords() {
		sb.WriteString("\n  No records in dataset\n\n")
		writeRule(&sb, "=")
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "Partner IDs:      %d - %d\n", stats.LowestID, stats.HighestID)
	fmt.Fprintf(&sb, "Owners:           %d (%.2f per record, max %d)\n",
		stats.OwnerCount, stats.AverageOwners(), stats.MaxOwners)
	fmt.Fprintf(&sb, "Without document: %d\n", stats.WithoutDocument)
	sb.WriteString("\n")

	w.writeCounts(&sb, "OWNERS BY NATIONALITY", stats.Nationalities)
	w.writeCounts(&sb, "RECORDS BY COUNTRY OF SEAT", stats.Countries)

	writeRule(&sb, "=")
	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs the crawl summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary crawler.Summary) (int, error) {
	var sb strings.Builder

	writeBanner(&sb, "CRAWL SUMMARY")
	fmt.Fprintf(&sb, "Range:           %d - %d\n", summary.Start, summary.End)
	fmt.Fprintf(&sb, "Processed:       %d\n", summary.Processed())
	fmt.Fprintf(&sb, "  Saved:         %d\n", summary.Saved)
	fmt.Fprintf(&sb, "  Cached:        %d\n", summary.Cached)
	fmt.Fprintf(&sb, "  No owners:     %d\n", summary.Empty)
	fmt.Fprintf(&sb, "  Fetch failed:  %d\n", summary.FetchFailed)
	fmt.Fprintf(&sb, "  Parse failed:  %d\n", summary.ExtractFailed)
	fmt.Fprintf(&sb, "Records on disk: %d\n", summary.Records)
	if summary.Interrupted {
		sb.WriteString("Status:          INTERRUPTED (rerun to resume)\n")
	} else {
		sb.WriteString("Status:          Complete\n")
	}
	if len(summary.WarningIDs) > 0 {
		fmt.Fprintf(&sb, "\nIDs with warnings: %s\n", formatIDs(summary.WarningIDs))
	}
	sb.WriteString("\n")
	writeRule(&sb, "=")

	return w.output.Write([]byte(sb.String()))
}

// writeCounts writes one tally section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, title string, counts []model.Count) {
	writeRule(sb, "-")
	sb.WriteString(title + "\n")
	writeRule(sb, "-")
	sb.WriteString("\n")

	for _, c := range topCounts(counts, w.top) {
		fmt.Fprintf(sb, "  %-40s %6d\n", c.Label, c.Value)
	}
	sb.WriteString("\n")
}

// writeBanner writes a title framed by double rules.
func writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	writeRule(sb, "=")
	pad := max((ruleWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad) + title + "\n")
	writeRule(sb, "=")
	sb.WriteString("\n")
}

// writeRule writes a full-width separator.
func writeRule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, ruleWidth))
	sb.WriteString("\n")
}

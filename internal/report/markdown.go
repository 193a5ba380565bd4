package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/rpvsharvest/internal/crawler"
	"github.com/nao1215/rpvsharvest/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables and mermaid charts
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// top limits the number of tally rows per table and chart.
	top int
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		top:        DefaultTop,
	}
}

// Write outputs the statistics in Markdown format.
func (w *MarkdownWriter) Write(stats *model.DatasetStats) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("RPVS Dataset Report")
	md.PlainText("")

	if !stats.HasRecords() {
		md.Note("The dataset contains no records. Run a crawl first.")
		md.PlainText("")
		w.writeFooter(md)
		return len(md.String()), md.Build()
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", stats.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Records", strconv.Itoa(stats.RecordCount)},
			{"Partner IDs", strconv.Itoa(stats.LowestID) + " - " + strconv.Itoa(stats.HighestID)},
			{"Beneficial owners", strconv.Itoa(stats.OwnerCount)},
			{"Owners per record", strconv.FormatFloat(stats.AverageOwners(), 'f', 2, 64)},
			{"Most owners on one record", strconv.Itoa(stats.MaxOwners)},
			{"Records without verification document", strconv.Itoa(stats.WithoutDocument)},
		},
	})
	md.PlainText("")

	if stats.WithoutDocument > 0 {
		md.Warningf("%d record(s) have no verification document link.", stats.WithoutDocument)
		md.PlainText("")
	}

	md.H2("Owners by Nationality")
	md.PlainText("")
	nationalities := topCounts(stats.Nationalities, w.top)
	w.writeCounts(md, "Nationality", "Owners", nationalities)
	w.writePieChart(md, "Owner Nationality Distribution", nationalities)

	md.H2("Records by Country of Seat")
	md.PlainText("")
	w.writeCounts(md, "Country", "Records", topCounts(stats.Countries, w.top))

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteSummary outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary crawler.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("RPVS Crawl Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "IDs"},
		Rows: [][]string{
			{"Saved", strconv.Itoa(summary.Saved)},
			{"Cached", strconv.Itoa(summary.Cached)},
			{"No owners", strconv.Itoa(summary.Empty)},
			{"Fetch failed", strconv.Itoa(summary.FetchFailed)},
			{"Parse failed", strconv.Itoa(summary.ExtractFailed)},
			{"**Total**", "**" + strconv.Itoa(summary.Processed()) + "**"},
		},
	})
	md.PlainText("")

	switch {
	case summary.Interrupted:
		md.Importantf("The crawl of IDs %d - %d was interrupted. Rerun it to resume.", summary.Start, summary.End)
	case len(summary.WarningIDs) > 0:
		md.Warningf("IDs with warnings: %s", formatIDs(summary.WarningIDs))
	default:
		md.Tip("All IDs in the range were processed without warnings.")
	}
	md.PlainText("")

	return len(md.String()), md.Build()
}

// writeCounts writes a two-column tally table.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, labelHeader, valueHeader string, counts []model.Count) {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Label, strconv.Itoa(c.Value)}
	}
	md.Table(markdown.TableSet{
		Header: []string{labelHeader, valueHeader},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of counts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, title string, counts []model.Count) {
	if len(counts) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle(title),
		piechart.WithShowData(true),
	)
	for _, c := range counts {
		chart.LabelAndIntValue(c.Label, uint64(c.Value)) //nolint:gosec // tallies are never negative
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by rpvsharvest*")
}

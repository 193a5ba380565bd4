// Package report renders dataset statistics and crawl summaries.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with a nationality pie chart
//
// Design decision: We separate report writing from the statistics
// themselves (which are computed in the model package). Every format shows
// the same numbers, and adding a format never touches the computation.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report

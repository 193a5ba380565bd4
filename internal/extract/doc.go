// Package extract turns registry detail pages into records.
//
// # Architecture
//
// Extraction is split in two layers:
//
//   - Document: the query surface the extractor needs from a page. It finds
//     labeled form groups by label text and lists the rows of the beneficial
//     owner table. HTMLDocument implements it on top of goquery.
//   - Extractor: the business rules. It reads each scalar field through the
//     Document, builds the verification document URL, parses the owner table
//     and passes every address through the address parser.
//
// Design decision: Fields are located by scanning labels for a substring
// rather than by fixed DOM paths. Registry pages do not keep a stable layout
// between entries, but the label texts do not change. Keeping the lookup
// behind the Document interface lets tests feed the extractor without HTML
// and keeps the business rules independent of the query engine.
//
// # Labels
//
// Labels are compared after diacritic stripping on both sides, so the same
// constants match both raw pages and pages that were normalized before
// parsing.
package extract

package crawler

// Outcome is the terminal state of one processed ID.
type Outcome int

const (
	// Cached means the URL was already processed by an earlier run.
	Cached Outcome = iota
	// Saved means a record was extracted and persisted.
	Saved
	// Empty means the page lists no beneficial owners.
	Empty
	// FetchFailed means the page could not be downloaded.
	FetchFailed
	// ExtractFailed means the page could not be parsed.
	ExtractFailed
)

// String returns the metric label of the outcome.
func (o Outcome) String() string {
	switch o {
	case Cached:
		return "cached"
	case Saved:
		return "saved"
	case Empty:
		return "empty"
	case FetchFailed:
		return "fetch_failed"
	case ExtractFailed:
		return "extract_failed"
	default:
		return "unknown"
	}
}

// IsWarning reports whether the outcome is a skipped ID that deserves
// attention.
func (o Outcome) IsWarning() bool {
	return o == FetchFailed || o == ExtractFailed
}

// Summary tallies the outcomes of a run.
type Summary struct {
	// Start and End are the requested ID bounds.
	Start int `json:"start"`
	End   int `json:"end"`

	Cached        int `json:"cached"`
	Saved         int `json:"saved"`
	Empty         int `json:"empty"`
	FetchFailed   int `json:"fetch_failed"`
	ExtractFailed int `json:"extract_failed"`

	// WarningIDs lists IDs that ended in FetchFailed or ExtractFailed.
	WarningIDs []int `json:"warning_ids,omitempty"`

	// Records is the collection size after the run.
	Records int `json:"records"`

	// Interrupted is set when the context was canceled before End.
	Interrupted bool `json:"interrupted"`
}

// Processed returns the number of IDs that reached an outcome.
func (s Summary) Processed() int {
	return s.Cached + s.Saved + s.Empty + s.FetchFailed + s.ExtractFailed
}

// add counts one outcome for id.
func (s *Summary) add(id int, o Outcome) {
	switch o {
	case Cached:
		s.Cached++
	case Saved:
		s.Saved++
	case Empty:
		s.Empty++
	case FetchFailed:
		s.FetchFailed++
	case ExtractFailed:
		s.ExtractFailed++
	}
	if o.IsWarning() {
		s.WarningIDs = append(s.WarningIDs, id)
	}
}

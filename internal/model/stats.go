package model

import (
	"sort"
	"time"
)

// unknownValue is the bucket name used when a grouped field is missing.
const unknownValue = "Unknown"

// DatasetStats is a summarized view over a collection of records.
// It backs the report command and can be serialized to JSON.
//
// Design decision: We compute the summary once from the records instead of
// letting each writer walk the collection. Every output format shows the
// same numbers, and the writers stay purely presentational.
type DatasetStats struct {
	// GeneratedAt is when the summary was computed.
	GeneratedAt time.Time `json:"generated_at"`

	// RecordCount is the number of records in the dataset.
	RecordCount int `json:"record_count"`

	// OwnerCount is the total number of beneficial owners across all records.
	OwnerCount int `json:"owner_count"`

	// MaxOwners is the largest owner list found on a single record.
	MaxOwners int `json:"max_owners"`

	// WithoutDocument counts records that have no verification document link.
	WithoutDocument int `json:"without_document"`

	// LowestID and HighestID bound the numeric IDs present in the dataset.
	LowestID  int `json:"lowest_id"`
	HighestID int `json:"highest_id"`

	// Nationalities counts owners per nationality, most frequent first.
	Nationalities []Count `json:"nationalities"`

	// Countries counts records per country of the registered seat, most frequent first.
	Countries []Count `json:"countries"`
}

// Count is a labeled tally.
type Count struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// NewDatasetStats builds a DatasetStats from the given records.
// The idOf function extracts the numeric ID from a source URL and reports
// whether one was found; records without an ID do not affect the ID bounds.
func NewDatasetStats(records []Record, idOf func(string) (int, bool), now time.Time) *DatasetStats {
	stats := &DatasetStats{
		GeneratedAt: now,
		RecordCount: len(records),
	}

	nationalities := make(map[string]int)
	countries := make(map[string]int)
	first := true

	for _, r := range records {
		stats.OwnerCount += len(r.BeneficialOwners)
		if len(r.BeneficialOwners) > stats.MaxOwners {
			stats.MaxOwners = len(r.BeneficialOwners)
		}
		if r.VerificationDocumentURL == nil {
			stats.WithoutDocument++
		}

		countries[labelOrUnknown(r.Address.Country)]++
		for _, bo := range r.BeneficialOwners {
			nationalities[labelOrUnknown(bo.Nationality)]++
		}

		if idOf == nil {
			continue
		}
		id, ok := idOf(r.SourceURL)
		if !ok {
			continue
		}
		if first || id < stats.LowestID {
			stats.LowestID = id
		}
		if first || id > stats.HighestID {
			stats.HighestID = id
		}
		first = false
	}

	stats.Nationalities = sortedCounts(nationalities)
	stats.Countries = sortedCounts(countries)
	return stats
}

// HasRecords reports whether the dataset contains at least one record.
func (s *DatasetStats) HasRecords() bool {
	return s.RecordCount > 0
}

// AverageOwners returns the mean number of owners per record.
func (s *DatasetStats) AverageOwners() float64 {
	if s.RecordCount == 0 {
		return 0
	}
	return float64(s.OwnerCount) / float64(s.RecordCount)
}

// labelOrUnknown maps a missing or blank value to the unknown bucket.
func labelOrUnknown(p *string) string {
	if p == nil || *p == "" {
		return unknownValue
	}
	return *p
}

// sortedCounts orders tallies by descending value, then by label.
func sortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for label, value := range m {
		counts = append(counts, Count{Label: label, Value: value})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Value != counts[j].Value {
			return counts[i].Value > counts[j].Value
		}
		return counts[i].Label < counts[j].Label
	})
	return counts
}

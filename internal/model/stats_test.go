package model

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// idFromURL is a minimal ID parser for tests.
func idFromURL(url string) (int, bool) {
	id, err := strconv.Atoi(url[strings.LastIndex(url, "/")+1:])
	return id, err == nil
}

func TestNewDatasetStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sk := StringPtr("Slovenska republika")
	cz := StringPtr("Ceska republika")

	records := []Record{
		{
			Address:                 Address{Country: sk},
			VerificationDocumentURL: StringPtr("https://rpvs.gov.sk/doc/1"),
			BeneficialOwners: []BeneficialOwner{
				{Nationality: sk},
				{Nationality: cz},
				{Nationality: sk},
			},
			SourceURL: "https://x/Detail/17",
		},
		{
			Address:          Address{Country: cz},
			BeneficialOwners: []BeneficialOwner{{Nationality: StringPtr("")}},
			SourceURL:        "https://x/Detail/3",
		},
		{
			BeneficialOwners: []BeneficialOwner{{}},
			SourceURL:        "https://x/Detail/oops",
		},
	}

	got := NewDatasetStats(records, idFromURL, now)
	want := &DatasetStats{
		GeneratedAt:     now,
		RecordCount:     3,
		OwnerCount:      5,
		MaxOwners:       3,
		WithoutDocument: 2,
		LowestID:        3,
		HighestID:       17,
		Nationalities: []Count{
			{Label: "Slovenska republika", Value: 2},
			{Label: "Unknown", Value: 2},
			{Label: "Ceska republika", Value: 1},
		},
		Countries: []Count{
			{Label: "Ceska republika", Value: 1},
			{Label: "Slovenska republika", Value: 1},
			{Label: "Unknown", Value: 1},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewDatasetStats() mismatch (-want +got):\n%s", diff)
	}
	if !got.HasRecords() {
		t.Error("expected HasRecords() to be true")
	}
	if avg := got.AverageOwners(); avg < 1.66 || avg > 1.67 {
		t.Errorf("expected average of 5/3, got %f", avg)
	}
}

func TestNewDatasetStatsEmpty(t *testing.T) {
	t.Parallel()

	got := NewDatasetStats(nil, nil, time.Time{})
	if got.HasRecords() {
		t.Error("expected HasRecords() to be false")
	}
	if got.AverageOwners() != 0 {
		t.Errorf("expected zero average, got %f", got.AverageOwners())
	}
	if len(got.Nationalities) != 0 || len(got.Countries) != 0 {
		t.Errorf("expected no tallies, got %+v", got)
	}
}

func TestAddressIsEmpty(t *testing.T) {
	t.Parallel()

	if !(Address{}).IsEmpty() {
		t.Error("zero Address should be empty")
	}
	if (Address{City: StringPtr("Praha")}).IsEmpty() {
		t.Error("Address with a city should not be empty")
	}
}

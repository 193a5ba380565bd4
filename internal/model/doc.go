// Package model defines the core data structures used throughout rpvsharvest.
//
// This package contains the following main types:
//   - Record: One harvested registry entry (a partner with its beneficial owners)
//   - BeneficialOwner: A natural person listed in a partner's owner table
//   - Address: A postal address split into line, postal code, city and country
//   - DatasetStats: Aggregated figures over a collection of records
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The extractor, the store, the crawler and the report writers
// all need these types, so centralizing them prevents import cycles.
//
// The JSON field names are part of the output file format and must not change:
// existing output files are reloaded on every run to resume a harvest.
package model

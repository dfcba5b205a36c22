package repository

import (
	"context"

	"bgcapi/internal/model"
)

// Search categories understood by ClustersByCategory. Categories map to exact
// matches, fuzzy (substring) matches, or name-or-description matches depending
// on how precise the underlying column is.
const (
	CategoryType        = "type"
	CategoryAcc         = "acc"
	CategoryGenus       = "genus"
	CategorySpecies     = "species"
	CategoryMonomer     = "monomer"
	CategoryCompoundSeq = "compound_seq"
)

// ClusterRepository defines data access for gene cluster search.
// No business logic here, strictly persistence operations.
type ClusterRepository interface {
	// ClustersByCategory returns the IDs of all clusters matching term within
	// the given category. An unknown category yields an empty set, not an error.
	ClustersByCategory(ctx context.Context, category, term string) ([]int64, error)

	// ClusterRecords returns flattened cluster records for the given IDs, in
	// ascending ID order. Clusters annotated with several types collapse into
	// one hybrid record.
	ClusterRecords(ctx context.Context, ids []int64) ([]model.Cluster, error)

	// GuessCategory resolves a bare search word to a category by probing the
	// database: type term, then accession, then genus, then species suffix,
	// then monomer name. It returns the canonical term as stored. ok is false
	// when no probe matched.
	GuessCategory(ctx context.Context, word string) (category, canonical string, ok bool, err error)

	// StatsByType counts the given clusters per type term.
	StatsByType(ctx context.Context, ids []int64) (model.StatSeries, error)

	// StatsByPhylum counts the given clusters per phylum.
	StatsByPhylum(ctx context.Context, ids []int64) (model.StatSeries, error)

	// AvailableTerms lists distinct stored terms with the given prefix for an
	// autocomplete category. Unknown categories yield an empty list.
	AvailableTerms(ctx context.Context, category, prefix string) ([]string, error)
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"bgcapi/internal/model"
	"bgcapi/internal/repository"
)

// availableTermsLimit caps autocomplete result sets.
const availableTermsLimit = 50

// ClusterPostgres is a PostgreSQL implementation of repository.ClusterRepository.
// Queries are composed with goqu; search terms are passed through the sanitizer
// before they reach this layer, but every value is still emitted via the builder.
type ClusterPostgres struct {
	db      *sql.DB
	builder *goqu.Database
}

// NewClusterPostgres creates a new ClusterPostgres repository.
func NewClusterPostgres(db *sql.DB) *ClusterPostgres {
	return &ClusterPostgres{
		db:      db,
		builder: goqu.Dialect("postgres").DB(db),
	}
}

var _ repository.ClusterRepository = (*ClusterPostgres)(nil)

// taxaColumns maps taxonomy search categories to their column on taxa.
var taxaColumns = map[string]string{
	"superkingdom": "superkingdom",
	"phylum":       "phylum",
	"class":        "class",
	"order":        "taxonomic_order",
	"family":       "family",
	"genus":        "genus",
	"strain":       "strain",
}

// ClustersByCategory returns the distinct IDs of clusters matching term within category.
func (r *ClusterPostgres) ClustersByCategory(ctx context.Context, category, term string) ([]int64, error) {
	ds := r.clusterSetQuery(category, term)
	if ds == nil {
		return nil, nil
	}

	var ids []int64
	if err := ds.Distinct().Executor().ScanValsContext(ctx, &ids); err != nil {
		return nil, fmt.Errorf("clusters by %s: %w", category, err)
	}
	return ids, nil
}

// clusterSetQuery builds the per-category ID query. Precise columns use exact
// matches, free-text ones substring matches; type and monomer also match their
// description, mirroring the exact/fuzzy/or-description ladder of the search
// handlers this replaces. Unknown categories return nil.
func (r *ClusterPostgres) clusterSetQuery(category, term string) *goqu.SelectDataset {
	fuzzy := "%" + term + "%"

	switch category {
	case repository.CategoryType:
		return r.builder.From("rel_bgcs_types").
			Join(goqu.T("bgc_types"), goqu.On(goqu.I("rel_bgcs_types.bgc_type_id").Eq(goqu.I("bgc_types.bgc_type_id")))).
			Where(goqu.Or(
				goqu.I("bgc_types.term").Eq(term),
				goqu.I("bgc_types.description").ILike(fuzzy),
			)).
			Select(goqu.I("rel_bgcs_types.bgc_id"))

	case repository.CategoryAcc:
		return r.builder.From("bgcs").
			Join(goqu.T("dna_sequences"), goqu.On(goqu.I("bgcs.seq_id").Eq(goqu.I("dna_sequences.seq_id")))).
			Where(goqu.I("dna_sequences.acc").Eq(term)).
			Select(goqu.I("bgcs.bgc_id"))

	case repository.CategorySpecies:
		return r.taxaJoin().
			Where(goqu.I("taxa.species").ILike(fuzzy)).
			Select(goqu.I("bgcs.bgc_id"))

	case repository.CategoryMonomer:
		return r.builder.From("rel_compounds_monomers").
			Join(goqu.T("compounds"), goqu.On(goqu.I("rel_compounds_monomers.compound_id").Eq(goqu.I("compounds.compound_id")))).
			Join(goqu.T("monomers"), goqu.On(goqu.I("rel_compounds_monomers.monomer_id").Eq(goqu.I("monomers.monomer_id")))).
			Where(goqu.Or(
				goqu.I("monomers.name").Eq(term),
				goqu.I("monomers.description").ILike(fuzzy),
			)).
			Select(goqu.I("compounds.bgc_id"))

	case repository.CategoryCompoundSeq:
		return r.builder.From("compounds").
			Where(goqu.I("peptide_sequence").ILike(fuzzy)).
			Select(goqu.I("bgc_id"))
	}

	if column, ok := taxaColumns[category]; ok {
		return r.taxaJoin().
			Where(goqu.I("taxa." + column).Eq(term)).
			Select(goqu.I("bgcs.bgc_id"))
	}

	return nil
}

// taxaJoin is the bgcs → dna_sequences → taxa join shared by taxonomy categories.
func (r *ClusterPostgres) taxaJoin() *goqu.SelectDataset {
	return r.builder.From("bgcs").
		Join(goqu.T("dna_sequences"), goqu.On(goqu.I("bgcs.seq_id").Eq(goqu.I("dna_sequences.seq_id")))).
		Join(goqu.T("taxa"), goqu.On(goqu.I("dna_sequences.tax_id").Eq(goqu.I("taxa.tax_id"))))
}

// ClusterRecords fetches the flattened records for the given cluster IDs.
func (r *ClusterPostgres) ClusterRecords(ctx context.Context, ids []int64) ([]model.Cluster, error) {
	if len(ids) == 0 {
		return []model.Cluster{}, nil
	}

	ds := r.taxaJoin().
		Join(goqu.T("rel_bgcs_types"), goqu.On(goqu.I("bgcs.bgc_id").Eq(goqu.I("rel_bgcs_types.bgc_id")))).
		Join(goqu.T("bgc_types"), goqu.On(goqu.I("rel_bgcs_types.bgc_type_id").Eq(goqu.I("bgc_types.bgc_type_id")))).
		Where(goqu.I("bgcs.bgc_id").In(ids)).
		Order(goqu.I("bgcs.bgc_id").Asc(), goqu.I("bgc_types.term").Asc()).
		Select(
			goqu.I("bgcs.bgc_id").As("bgc_id"),
			goqu.I("taxa.species").As("species"),
			goqu.I("dna_sequences.acc").As("acc"),
			goqu.I("dna_sequences.version").As("version"),
			goqu.I("bgcs.cluster_number").As("cluster_number"),
			goqu.I("bgc_types.term").As("term"),
			goqu.I("bgc_types.description").As("description"),
			goqu.I("bgcs.start_pos").As("start_pos"),
			goqu.I("bgcs.end_pos").As("end_pos"),
			goqu.I("bgcs.cbh_acc").As("cbh_acc"),
			goqu.I("bgcs.cbh_description").As("cbh_description"),
			goqu.I("bgcs.similarity").As("similarity"),
		)

	var rows []pgClusterRow
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("cluster records: %w", err)
	}
	return collapseClusters(rows), nil
}

// GuessCategory probes the database to resolve a bare word into a category.
// Probe order matters: type terms shadow accessions, which shadow taxonomy.
func (r *ClusterPostgres) GuessCategory(ctx context.Context, word string) (string, string, bool, error) {
	probes := []struct {
		category string
		ds       *goqu.SelectDataset
	}{
		{repository.CategoryType, r.builder.From("bgc_types").
			Select(goqu.I("term")).Where(goqu.I("term").Eq(word))},
		{repository.CategoryAcc, r.builder.From("dna_sequences").
			Select(goqu.I("acc")).Where(goqu.I("acc").Eq(word))},
		{repository.CategoryGenus, r.builder.From("taxa").
			Select(goqu.I("genus")).Where(goqu.I("genus").Eq(word))},
		{repository.CategorySpecies, r.builder.From("taxa").
			Select(goqu.I("species")).Where(goqu.I("species").ILike("% " + word))},
		{repository.CategoryMonomer, r.builder.From("monomers").
			Select(goqu.I("name")).Where(goqu.I("name").Eq(word))},
	}

	for _, probe := range probes {
		var canonical string
		found, err := probe.ds.Limit(1).Executor().ScanValContext(ctx, &canonical)
		if err != nil {
			return "", "", false, fmt.Errorf("category probe %s: %w", probe.category, err)
		}
		if found {
			return probe.category, canonical, true, nil
		}
	}
	return "", "", false, nil
}

// StatsByType counts the given clusters per type term, most frequent first.
func (r *ClusterPostgres) StatsByType(ctx context.Context, ids []int64) (model.StatSeries, error) {
	if len(ids) == 0 {
		return model.StatSeries{}, nil
	}

	ds := r.builder.From("rel_bgcs_types").
		Join(goqu.T("bgc_types"), goqu.On(goqu.I("rel_bgcs_types.bgc_type_id").Eq(goqu.I("bgc_types.bgc_type_id")))).
		Where(goqu.I("rel_bgcs_types.bgc_id").In(ids)).
		GroupBy(goqu.I("bgc_types.term")).
		Select(
			goqu.I("bgc_types.term").As("label"),
			goqu.COUNT(goqu.Star()).As("tally"),
		).
		Order(goqu.I("tally").Desc(), goqu.I("label").Asc())

	var rows []pgStatRow
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return model.StatSeries{}, fmt.Errorf("stats by type: %w", err)
	}
	return statRowsToSeries(rows), nil
}

// StatsByPhylum counts the given clusters per phylum, most frequent first.
func (r *ClusterPostgres) StatsByPhylum(ctx context.Context, ids []int64) (model.StatSeries, error) {
	if len(ids) == 0 {
		return model.StatSeries{}, nil
	}

	ds := r.taxaJoin().
		Where(goqu.I("bgcs.bgc_id").In(ids)).
		GroupBy(goqu.I("taxa.phylum")).
		Select(
			goqu.I("taxa.phylum").As("label"),
			goqu.COUNT(goqu.Star()).As("tally"),
		).
		Order(goqu.I("tally").Desc(), goqu.I("label").Asc())

	var rows []pgStatRow
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return model.StatSeries{}, fmt.Errorf("stats by phylum: %w", err)
	}
	return statRowsToSeries(rows), nil
}

// availableColumns maps autocomplete categories to their table and column.
var availableColumns = map[string]struct{ table, column string }{
	"superkingdom": {"taxa", "superkingdom"},
	"phylum":       {"taxa", "phylum"},
	"class":        {"taxa", "class"},
	"order":        {"taxa", "taxonomic_order"},
	"family":       {"taxa", "family"},
	"genus":        {"taxa", "genus"},
	"species":      {"taxa", "species"},
	"strain":       {"taxa", "strain"},
	"acc":          {"dna_sequences", "acc"},
	"compound":     {"compounds", "peptide_sequence"},
	"monomer":      {"monomers", "name"},
	"type":         {"bgc_types", "term"},
}

// AvailableTerms lists distinct stored terms starting with prefix for category.
func (r *ClusterPostgres) AvailableTerms(ctx context.Context, category, prefix string) ([]string, error) {
	loc, ok := availableColumns[category]
	if !ok {
		return []string{}, nil
	}

	column := goqu.I(loc.column)
	ds := r.builder.From(loc.table).
		SelectDistinct(column).
		Where(column.ILike(prefix + "%")).
		Order(column.Asc()).
		Limit(availableTermsLimit)

	terms := []string{}
	if err := ds.Executor().ScanValsContext(ctx, &terms); err != nil {
		return nil, fmt.Errorf("available %s terms: %w", category, err)
	}
	return terms, nil
}

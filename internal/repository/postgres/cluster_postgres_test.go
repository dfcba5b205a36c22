package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bgcapi/internal/repository"
)

var clusterColumns = []string{
	"bgc_id", "species", "acc", "version", "cluster_number", "term", "description",
	"start_pos", "end_pos", "cbh_acc", "cbh_description", "similarity",
}

func TestClusterPostgres_ClustersByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClusterPostgres(db)
	ctx := context.Background()

	t.Run("type matches term or description", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT "rel_bgcs_types"."bgc_id" FROM "rel_bgcs_types"`).
			WillReturnRows(sqlmock.NewRows([]string{"bgc_id"}).AddRow(3).AddRow(7))

		ids, err := repo.ClustersByCategory(ctx, repository.CategoryType, "lanthipeptide")

		assert.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("genus goes through the taxa join", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT "bgcs"."bgc_id" FROM "bgcs"`).
			WillReturnRows(sqlmock.NewRows([]string{"bgc_id"}).AddRow(12))

		ids, err := repo.ClustersByCategory(ctx, repository.CategoryGenus, "Streptomyces")

		assert.NoError(t, err)
		assert.Equal(t, []int64{12}, ids)
	})

	t.Run("compound_seq is a substring match", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT "bgc_id" FROM "compounds"`).
			WillReturnRows(sqlmock.NewRows([]string{"bgc_id"}).AddRow(5))

		ids, err := repo.ClustersByCategory(ctx, repository.CategoryCompoundSeq, "ITFGEE")

		assert.NoError(t, err)
		assert.Equal(t, []int64{5}, ids)
	})

	t.Run("unknown category yields empty set without queries", func(t *testing.T) {
		ids, err := repo.ClustersByCategory(ctx, "nonsense", "anything")

		assert.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestClusterPostgres_ClusterRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClusterPostgres(db)
	ctx := context.Background()

	t.Run("hybrid clusters collapse into one record", func(t *testing.T) {
		rows := sqlmock.NewRows(clusterColumns).
			AddRow(1, "Streptomyces coelicolor A3(2)", "AL645882", 2, 1, "lanthipeptide", "Lanthipeptide cluster", 100, 2000, "BGC0000552", "SapB", 85).
			AddRow(2, "Streptomyces lividans", "CP009124", 1, 3, "nrps", "Nonribosomal peptide", 500, 9000, "BGC0000325", "CDA", 60).
			AddRow(2, "Streptomyces lividans", "CP009124", 1, 3, "t1pks", "Type I PKS", 500, 9000, "BGC0000325", "CDA", 60)

		mock.ExpectQuery(`FROM "bgcs"`).WillReturnRows(rows)

		records, err := repo.ClusterRecords(ctx, []int64{1, 2})

		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "lanthipeptide", records[0].Term)
		assert.Equal(t, "Lanthipeptide cluster", records[0].Description)

		assert.Equal(t, int64(2), records[1].BgcID)
		assert.Equal(t, "nrps-t1pks hybrid", records[1].Term)
		assert.Equal(t, "Hybrid cluster: nrps-t1pks", records[1].Description)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ids means no query", func(t *testing.T) {
		records, err := repo.ClusterRecords(ctx, nil)

		assert.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestClusterPostgres_GuessCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClusterPostgres(db)
	ctx := context.Background()

	t.Run("type term wins the first probe", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "term" FROM "bgc_types"`).
			WillReturnRows(sqlmock.NewRows([]string{"term"}).AddRow("lanthipeptide"))

		category, canonical, ok, err := repo.GuessCategory(ctx, "lanthipeptide")

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, repository.CategoryType, category)
		assert.Equal(t, "lanthipeptide", canonical)
	})

	t.Run("falls through to genus", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "term" FROM "bgc_types"`).
			WillReturnRows(sqlmock.NewRows([]string{"term"}))
		mock.ExpectQuery(`SELECT "acc" FROM "dna_sequences"`).
			WillReturnRows(sqlmock.NewRows([]string{"acc"}))
		mock.ExpectQuery(`SELECT "genus" FROM "taxa"`).
			WillReturnRows(sqlmock.NewRows([]string{"genus"}).AddRow("Streptomyces"))

		category, canonical, ok, err := repo.GuessCategory(ctx, "streptomyces")

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, repository.CategoryGenus, category)
		assert.Equal(t, "Streptomyces", canonical)
	})

	t.Run("no probe matches", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "term" FROM "bgc_types"`).
			WillReturnRows(sqlmock.NewRows([]string{"term"}))
		mock.ExpectQuery(`SELECT "acc" FROM "dna_sequences"`).
			WillReturnRows(sqlmock.NewRows([]string{"acc"}))
		mock.ExpectQuery(`SELECT "genus" FROM "taxa"`).
			WillReturnRows(sqlmock.NewRows([]string{"genus"}))
		mock.ExpectQuery(`SELECT "species" FROM "taxa"`).
			WillReturnRows(sqlmock.NewRows([]string{"species"}))
		mock.ExpectQuery(`SELECT "name" FROM "monomers"`).
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		_, _, ok, err := repo.GuessCategory(ctx, "ITFGEE")

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestClusterPostgres_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClusterPostgres(db)
	ctx := context.Background()

	t.Run("by type", func(t *testing.T) {
		mock.ExpectQuery(`FROM "rel_bgcs_types"`).
			WillReturnRows(sqlmock.NewRows([]string{"label", "tally"}).
				AddRow("nrps", 12).
				AddRow("t1pks", 4))

		series, err := repo.StatsByType(ctx, []int64{1, 2, 3})

		assert.NoError(t, err)
		assert.Equal(t, []string{"nrps", "t1pks"}, series.Labels)
		assert.Equal(t, []int{12, 4}, series.Data)
	})

	t.Run("by phylum", func(t *testing.T) {
		mock.ExpectQuery(`FROM "bgcs"`).
			WillReturnRows(sqlmock.NewRows([]string{"label", "tally"}).
				AddRow("Actinobacteria", 9))

		series, err := repo.StatsByPhylum(ctx, []int64{1, 2})

		assert.NoError(t, err)
		assert.Equal(t, []string{"Actinobacteria"}, series.Labels)
		assert.Equal(t, []int{9}, series.Data)
	})

	t.Run("empty input is free", func(t *testing.T) {
		series, err := repo.StatsByType(ctx, nil)

		assert.NoError(t, err)
		assert.Empty(t, series.Labels)
	})
}

func TestClusterPostgres_AvailableTerms(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewClusterPostgres(db)
	ctx := context.Background()

	t.Run("genus prefix", func(t *testing.T) {
		mock.ExpectQuery(`SELECT DISTINCT "genus" FROM "taxa"`).
			WillReturnRows(sqlmock.NewRows([]string{"genus"}).
				AddRow("Streptococcus").
				AddRow("Streptomyces"))

		terms, err := repo.AvailableTerms(ctx, "genus", "strept")

		assert.NoError(t, err)
		assert.Equal(t, []string{"Streptococcus", "Streptomyces"}, terms)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown category returns empty list", func(t *testing.T) {
		terms, err := repo.AvailableTerms(ctx, "flavor", "x")

		assert.NoError(t, err)
		assert.Empty(t, terms)
	})
}

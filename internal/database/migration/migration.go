package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_taxa",
		SQL: `CREATE TABLE IF NOT EXISTS taxa (
  tax_id          BIGSERIAL PRIMARY KEY,
  superkingdom    TEXT NOT NULL DEFAULT '',
  phylum          TEXT NOT NULL DEFAULT '',
  class           TEXT NOT NULL DEFAULT '',
  taxonomic_order TEXT NOT NULL DEFAULT '',
  family          TEXT NOT NULL DEFAULT '',
  genus           TEXT NOT NULL DEFAULT '',
  species         TEXT NOT NULL DEFAULT '',
  strain          TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_dna_sequences",
		SQL: `CREATE TABLE IF NOT EXISTS dna_sequences (
  seq_id  BIGSERIAL PRIMARY KEY,
  acc     TEXT NOT NULL UNIQUE,
  version INT  NOT NULL DEFAULT 1,
  tax_id  BIGINT NOT NULL REFERENCES taxa (tax_id)
);`,
	},
	{
		Name: "create_table_bgc_types",
		SQL: `CREATE TABLE IF NOT EXISTS bgc_types (
  bgc_type_id BIGSERIAL PRIMARY KEY,
  term        TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_bgcs",
		SQL: `CREATE TABLE IF NOT EXISTS bgcs (
  bgc_id          BIGSERIAL PRIMARY KEY,
  seq_id          BIGINT NOT NULL REFERENCES dna_sequences (seq_id),
  cluster_number  INT    NOT NULL CHECK (cluster_number > 0),
  start_pos       INT    NOT NULL,
  end_pos         INT    NOT NULL,
  cbh_acc         TEXT   NOT NULL DEFAULT '',
  cbh_description TEXT   NOT NULL DEFAULT '',
  similarity      INT    NOT NULL DEFAULT 0,
  UNIQUE (seq_id, cluster_number)
);`,
	},
	{
		Name: "create_table_rel_bgcs_types",
		SQL: `CREATE TABLE IF NOT EXISTS rel_bgcs_types (
  bgc_id      BIGINT NOT NULL REFERENCES bgcs (bgc_id) ON DELETE CASCADE,
  bgc_type_id BIGINT NOT NULL REFERENCES bgc_types (bgc_type_id),
  PRIMARY KEY (bgc_id, bgc_type_id)
);`,
	},
	{
		Name: "create_table_compounds",
		SQL: `CREATE TABLE IF NOT EXISTS compounds (
  compound_id      BIGSERIAL PRIMARY KEY,
  bgc_id           BIGINT NOT NULL REFERENCES bgcs (bgc_id) ON DELETE CASCADE,
  peptide_sequence TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_monomers",
		SQL: `CREATE TABLE IF NOT EXISTS monomers (
  monomer_id  BIGSERIAL PRIMARY KEY,
  name        TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_table_rel_compounds_monomers",
		SQL: `CREATE TABLE IF NOT EXISTS rel_compounds_monomers (
  compound_id BIGINT NOT NULL REFERENCES compounds (compound_id) ON DELETE CASCADE,
  monomer_id  BIGINT NOT NULL REFERENCES monomers (monomer_id),
  position    INT    NOT NULL,
  PRIMARY KEY (compound_id, monomer_id, position)
);`,
	},
	{
		Name: "create_index_dna_sequences_acc",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_dna_sequences_acc ON dna_sequences (acc);`,
	},
	{
		Name: "create_index_bgc_types_term",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_bgc_types_term ON bgc_types (term);`,
	},
	{
		Name: "create_index_taxa_genus",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_taxa_genus ON taxa (genus);`,
	},
	{
		Name: "create_index_taxa_species",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_taxa_species ON taxa (species);`,
	},
	{
		Name: "create_index_monomers_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_monomers_name ON monomers (name);`,
	},
	{
		Name: "create_index_compounds_peptide_sequence",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_compounds_peptide_sequence ON compounds (peptide_sequence);`,
	},
}

// EnsureMigrated checks if the 'bgcs' table exists and runs migrations if it doesn't.
// The cluster schema is append-only in practice; the sentinel check keeps startup cheap.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.bgcs') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}

package export

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lrrindex/lrr-index/internal/index"
	"github.com/lrrindex/lrr-index/internal/paper"
	_ "modernc.org/sqlite"
)

// createSchema drops and recreates the snapshot tables.
func createSchema(db *sql.DB) error {
	schema := `
		DROP TABLE IF EXISTS authors;
		DROP TABLE IF EXISTS papers;

		-- One row per normalized record, input order
		CREATE TABLE papers (
			pos INTEGER PRIMARY KEY,
			key TEXT,
			inspire_id TEXT,
			doi TEXT NOT NULL,
			title TEXT NOT NULL,
			year TEXT NOT NULL,
			volume TEXT NOT NULL,
			number TEXT NOT NULL,
			abstract TEXT NOT NULL,
			collaboration INTEGER NOT NULL,
			incomplete INTEGER NOT NULL,
			superseded INTEGER NOT NULL,
			missing TEXT
		);

		CREATE INDEX idx_papers_key ON papers(key);

		-- Authors as listed; surname is NULL for the collapsed tail
		CREATE TABLE authors (
			paper_pos INTEGER NOT NULL REFERENCES papers(pos),
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			surname TEXT,
			PRIMARY KEY (paper_pos, position)
		);

		CREATE INDEX idx_authors_surname ON authors(surname);
	`
	_, err := db.Exec(schema)
	return err
}

// WriteSQLite writes a snapshot of a run's papers to the database at path,
// replacing any earlier snapshot. Papers whose key is in superseded are
// flagged, not dropped.
func WriteSQLite(path string, papers []paper.Paper, superseded index.KeySet) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	paperStmt, err := tx.Prepare(`
		INSERT INTO papers (
			pos, key, inspire_id, doi, title, year, volume, number, abstract,
			collaboration, incomplete, superseded, missing
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing papers insert: %w", err)
	}
	defer paperStmt.Close()

	authorStmt, err := tx.Prepare(`
		INSERT INTO authors (paper_pos, position, name, surname) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing authors insert: %w", err)
	}
	defer authorStmt.Close()

	for pos, p := range papers {
		key := p.Key()
		isSuperseded := key != "" && superseded != nil && superseded.Contains(key)
		_, err := paperStmt.Exec(
			pos, nullIfEmpty(key), nullIfEmpty(p.ID), p.DOI, p.Title, p.Year, p.Volume, p.Number, p.Abstract,
			boolToInt(p.IsCollaboration()), boolToInt(p.Incomplete), boolToInt(isSuperseded),
			nullIfEmpty(strings.Join(p.Missing, ",")),
		)
		if err != nil {
			return fmt.Errorf("inserting paper %d: %w", pos, err)
		}

		for i, name := range p.Authors {
			var surname any
			if i < len(p.AuthorSurnames) {
				surname = p.AuthorSurnames[i]
			}
			if _, err := authorStmt.Exec(pos, i, name, surname); err != nil {
				return fmt.Errorf("inserting author %d of paper %d: %w", i, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
)

// exportFormatVersion guards against importing archives written by an
// incompatible future format
const exportFormatVersion = 1

// ExportData is the archive payload written by Export and read by Import
type ExportData struct {
	FormatVersion int              `json:"format_version"`
	ExportedAt    int64            `json:"exported_at"`
	SchemaVersion int              `json:"schema_version"`
	Branches      []BranchRecord   `json:"branches"`
	Aliases       []Alias          `json:"aliases"`
	Previous      []PreviousBranch `json:"previous"`
}

// Export writes the entire database as gzip-compressed JSON
func (db *DB) Export(w io.Writer, now time.Time) error {
	data := ExportData{
		FormatVersion: exportFormatVersion,
		ExportedAt:    now.Unix(),
	}

	version, err := db.getSchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	data.SchemaVersion = version

	usage := NewUsageRepository(db)
	if data.Branches, err = usage.ListAll(); err != nil {
		return fmt.Errorf("failed to export usage records: %w", err)
	}

	if data.Aliases, err = db.listAllAliases(); err != nil {
		return fmt.Errorf("failed to export aliases: %w", err)
	}

	if data.Previous, err = db.listAllPrevious(); err != nil {
		return fmt.Errorf("failed to export previous pointers: %w", err)
	}

	gw := gzip.NewWriter(w)
	enc := json.NewEncoder(gw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		gw.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("failed to finish export stream: %w", err)
	}
	return nil
}

// ImportResult reports what an Import merged into the database
type ImportResult struct {
	Branches int
	Aliases  int
	Previous int
}

// Import merges a gzip-compressed JSON archive into the database. Usage
// records add their switch counts onto existing rows and keep the later
// last_used; aliases and previous pointers from the archive win outright.
func (db *DB) Import(r io.Reader) (*ImportResult, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open import stream: %w", err)
	}
	defer gr.Close()

	var data ExportData
	if err := json.NewDecoder(gr).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode import: %w", err)
	}

	if data.FormatVersion > exportFormatVersion {
		return nil, fmt.Errorf("unsupported export format version %d (supported: %d)",
			data.FormatVersion, exportFormatVersion)
	}

	result := &ImportResult{}
	err = db.WithTx(func(tx *sql.Tx) error {
		for _, rec := range data.Branches {
			_, err := tx.Exec(`
				INSERT INTO branches (repo_path, branch_name, switch_count, last_used)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(repo_path, branch_name) DO UPDATE SET
					switch_count = switch_count + excluded.switch_count,
					last_used = MAX(last_used, excluded.last_used)
			`, rec.RepoPath, rec.BranchName, rec.SwitchCount, rec.LastUsed)
			if err != nil {
				return fmt.Errorf("failed to import usage record: %w", err)
			}
			result.Branches++
		}

		for _, a := range data.Aliases {
			_, err := tx.Exec(`
				INSERT INTO aliases (repo_path, alias, branch_name, created_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(repo_path, alias) DO UPDATE SET
					branch_name = excluded.branch_name,
					created_at = excluded.created_at
			`, a.RepoPath, a.AliasName, a.BranchName, a.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to import alias: %w", err)
			}
			result.Aliases++
		}

		for _, p := range data.Previous {
			_, err := tx.Exec(`
				INSERT INTO previous_branch (repo_path, branch_name, updated_at)
				VALUES (?, ?, ?)
				ON CONFLICT(repo_path) DO UPDATE SET
					branch_name = excluded.branch_name,
					updated_at = excluded.updated_at
			`, p.RepoPath, p.BranchName, p.UpdatedAt)
			if err != nil {
				return fmt.Errorf("failed to import previous pointer: %w", err)
			}
			result.Previous++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (db *DB) listAllAliases() ([]Alias, error) {
	rows, err := db.Query(`
		SELECT repo_path, alias, branch_name, created_at
		FROM aliases
		ORDER BY repo_path, alias
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aliases []Alias
	for rows.Next() {
		var a Alias
		if err := rows.Scan(&a.RepoPath, &a.AliasName, &a.BranchName, &a.CreatedAt); err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

func (db *DB) listAllPrevious() ([]PreviousBranch, error) {
	rows, err := db.Query(`
		SELECT repo_path, branch_name, updated_at
		FROM previous_branch
		ORDER BY repo_path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var previous []PreviousBranch
	for rows.Next() {
		var p PreviousBranch
		if err := rows.Scan(&p.RepoPath, &p.BranchName, &p.UpdatedAt); err != nil {
			return nil, err
		}
		previous = append(previous, p)
	}
	return previous, rows.Err()
}

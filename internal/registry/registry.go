// Package registry stores imported reference genome definitions in a
// SQLite database so parsers and the web service can look them up by name.
//
// Build modes:
//   - Default (CGO_ENABLED=0): pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): mattn/go-sqlite3
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/seqlab/genoql/core/errors"
	"github.com/seqlab/genoql/core/genome"
)

const schema = `
CREATE TABLE IF NOT EXISTS genomes (
	import_id   TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	fingerprint TEXT NOT NULL,
	definition  TEXT NOT NULL,
	imported_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_genomes_fingerprint ON genomes(fingerprint);
`

// Entry describes one imported genome.
type Entry struct {
	ImportID    string    `json:"import_id"`
	Name        string    `json:"name"`
	Fingerprint string    `json:"fingerprint"`
	ImportedAt  time.Time `json:"imported_at"`
}

// DriverType returns "cgo" or "purego" depending on the build.
func DriverType() string {
	return driverType
}

// Registry is a SQLite-backed store of genome definitions.
type Registry struct {
	db *sql.DB
}

// Open opens (or creates) a registry database at path.
func Open(path string) (*Registry, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewIO("migrate", path, err)
	}
	return &Registry{db: db}, nil
}

// Close closes the underlying database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Put stores a genome under its name and returns the import record.
// Re-importing a name replaces the previous definition.
func (r *Registry) Put(ctx context.Context, rg *genome.Reference) (Entry, error) {
	blob, err := json.Marshal(rg.Definition())
	if err != nil {
		return Entry{}, errors.Wrap(err, "encoding definition")
	}
	entry := Entry{
		ImportID:    uuid.New().String(),
		Name:        rg.Name(),
		Fingerprint: rg.FingerprintHex(),
		ImportedAt:  time.Now().UTC(),
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO genomes (import_id, name, fingerprint, definition, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			import_id = excluded.import_id,
			fingerprint = excluded.fingerprint,
			definition = excluded.definition,
			imported_at = excluded.imported_at`,
		entry.ImportID, entry.Name, entry.Fingerprint, string(blob),
		entry.ImportedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Entry{}, errors.Wrapf(err, "storing genome %q", entry.Name)
	}
	return entry, nil
}

// Get loads a genome definition by name.
func (r *Registry) Get(ctx context.Context, name string) (*genome.Reference, error) {
	var blob string
	err := r.db.QueryRowContext(ctx,
		`SELECT definition FROM genomes WHERE name = ?`, name).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("genome", name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading genome %q", name)
	}
	var def genome.Definition
	if err := json.Unmarshal([]byte(blob), &def); err != nil {
		return nil, errors.Wrapf(err, "decoding genome %q", name)
	}
	return genome.New(def)
}

// List returns all import records ordered by name.
func (r *Registry) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT import_id, name, fingerprint, imported_at
		FROM genomes ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "listing genomes")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var importedAt string
		if err := rows.Scan(&e.ImportID, &e.Name, &e.Fingerprint, &importedAt); err != nil {
			return nil, errors.Wrap(err, "scanning genome row")
		}
		e.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt)
		if err != nil {
			return nil, errors.Wrap(err, "parsing import time")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a genome by name.
func (r *Registry) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM genomes WHERE name = ?`, name)
	if err != nil {
		return errors.Wrapf(err, "deleting genome %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NewNotFound("genome", name)
	}
	return nil
}

// Package catalog provides durable storage for compiled queries: the
// canonical DSL text and wire payload of each saved query, keyed by
// name and content-addressed by payload hash. Uses SQLite with WAL
// mode; payload blobs are gzip-compressed.
package catalog

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	_ "embed"

	"github.com/klauspost/compress/gzip"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/quarry/wire"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a named query does not exist.
var ErrNotFound = errors.New("query not found")

// Entry is one saved query.
type Entry struct {
	Hash    string
	Name    string
	DSL     string
	Payload []byte // canonical payload bytes, decompressed
	Seq     int64
}

// Catalog is the compiled-query store.
type Catalog struct {
	db *sql.DB
}

// Open creates or opens a catalog database at the given path.
// Idempotent; applies pragmas and schema automatically.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to catalog: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply catalog schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put saves a query under name. The payload must be canonical bytes;
// the stored hash is derived from it, so saving the same payload twice
// under the same name is a no-op. Re-using a name for a different
// payload replaces the entry.
func (c *Catalog) Put(ctx context.Context, name, dsl string, payload []byte) (string, error) {
	hash := wire.PayloadID(payload)

	compressed, err := compress(payload)
	if err != nil {
		return "", fmt.Errorf("put %q: %w", name, err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO queries (hash, name, dsl, payload, created_seq)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(created_seq), 0) + 1 FROM queries))
		ON CONFLICT(name) DO UPDATE SET hash = excluded.hash, dsl = excluded.dsl, payload = excluded.payload
	`, hash, name, dsl, compressed)
	if err != nil {
		return "", fmt.Errorf("put %q: %w", name, err)
	}
	return hash, nil
}

// Get returns the entry saved under name, or ErrNotFound.
func (c *Catalog) Get(ctx context.Context, name string) (*Entry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT hash, name, dsl, payload, created_seq FROM queries WHERE name = ?
	`, name)

	var e Entry
	var compressed []byte
	if err := row.Scan(&e.Hash, &e.Name, &e.DSL, &compressed, &e.Seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("get %q: %w", name, err)
	}

	payload, err := decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	e.Payload = payload
	return &e, nil
}

// List returns all entries in insertion order, payloads omitted.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT hash, name, dsl, created_seq FROM queries ORDER BY created_seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Hash, &e.Name, &e.DSL, &e.Seq); err != nil {
			return nil, fmt.Errorf("list queries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return entries, nil
}

// Delete removes the entry saved under name, or returns ErrNotFound.
func (c *Catalog) Delete(ctx context.Context, name string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM queries WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", name, ErrNotFound)
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	return buf.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	return out, nil
}

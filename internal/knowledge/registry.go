package knowledge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// IndexStatus is the ingestion state of a document.
type IndexStatus string

const (
	StatusPending IndexStatus = "pending"
	StatusIndexed IndexStatus = "indexed"
	StatusFailed  IndexStatus = "failed"
)

// DocRecord is one row of the document registry. The registry holds only
// knowledge metadata; conversation state never touches disk.
type DocRecord struct {
	Path       string
	Hash       string
	SizeBytes  int64
	MtimeUnix  int64
	ChunkCount int
	Status     IndexStatus
	IndexedAt  int64
	IndexError string
}

// ErrDocNotFound is returned when a path has no registry row.
var ErrDocNotFound = errors.New("document not found in registry")

// Registry tracks ingested documents in sqlite so restarts and re-ingests
// skip unchanged files and know how many chunks each document produced.
type Registry struct {
	db *sql.DB
}

// OpenRegistry opens (or creates) the registry database at dbPath.
func OpenRegistry(ctx context.Context, dbPath string) (*Registry, error) {
	// WAL keeps concurrent readers cheap; one writer is plenty here.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping registry database: %w", err)
	}

	r := &Registry{db: db}
	if err := r.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize registry schema: %w", err)
	}
	return r, nil
}

// Close closes the database.
func (r *Registry) Close() error {
	return r.db.Close()
}

func (r *Registry) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		path        TEXT PRIMARY KEY,
		hash        TEXT NOT NULL,
		size_bytes  INTEGER NOT NULL DEFAULT 0,
		mtime_unix  INTEGER NOT NULL DEFAULT 0,
		chunk_count INTEGER NOT NULL DEFAULT 0,
		status      TEXT NOT NULL DEFAULT 'pending',
		indexed_at  INTEGER NOT NULL DEFAULT 0,
		index_error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Get returns the registry row for path, or ErrDocNotFound.
func (r *Registry) Get(ctx context.Context, path string) (DocRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT path, hash, size_bytes, mtime_unix, chunk_count, status, indexed_at, index_error
		FROM documents WHERE path = ?`, path)

	var rec DocRecord
	err := row.Scan(&rec.Path, &rec.Hash, &rec.SizeBytes, &rec.MtimeUnix,
		&rec.ChunkCount, &rec.Status, &rec.IndexedAt, &rec.IndexError)
	if errors.Is(err, sql.ErrNoRows) {
		return DocRecord{}, ErrDocNotFound
	}
	if err != nil {
		return DocRecord{}, fmt.Errorf("failed to read document record: %w", err)
	}
	return rec, nil
}

// NeedsIngest reports whether a discovered file differs from its last
// successfully indexed state.
func (r *Registry) NeedsIngest(ctx context.Context, file FileInfo) (bool, error) {
	rec, err := r.Get(ctx, file.Path)
	if errors.Is(err, ErrDocNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return rec.Status != StatusIndexed || rec.Hash != file.Hash, nil
}

// MarkIndexed records a successful ingest of file into chunkCount chunks.
func (r *Registry) MarkIndexed(ctx context.Context, file FileInfo, chunkCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (path, hash, size_bytes, mtime_unix, chunk_count, status, indexed_at, index_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, '')
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			size_bytes = excluded.size_bytes,
			mtime_unix = excluded.mtime_unix,
			chunk_count = excluded.chunk_count,
			status = excluded.status,
			indexed_at = excluded.indexed_at,
			index_error = ''`,
		file.Path, file.Hash, file.SizeBytes, file.MtimeUnix,
		chunkCount, StatusIndexed, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to mark document indexed: %w", err)
	}
	return nil
}

// MarkFailed records an ingest failure so it is visible in List output.
func (r *Registry) MarkFailed(ctx context.Context, file FileInfo, ingestErr error) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (path, hash, size_bytes, mtime_unix, status, index_error)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			status = excluded.status,
			index_error = excluded.index_error`,
		file.Path, file.Hash, file.SizeBytes, file.MtimeUnix,
		StatusFailed, ingestErr.Error())
	if err != nil {
		return fmt.Errorf("failed to mark document failed: %w", err)
	}
	return nil
}

// Delete removes a document's row, returning its previous record so the
// caller can clean the indexes up (chunk IDs derive from chunk_count).
func (r *Registry) Delete(ctx context.Context, path string) (DocRecord, error) {
	rec, err := r.Get(ctx, path)
	if err != nil {
		return DocRecord{}, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE path = ?`, path); err != nil {
		return DocRecord{}, fmt.Errorf("failed to delete document record: %w", err)
	}
	return rec, nil
}

// List returns all registry rows ordered by path.
func (r *Registry) List(ctx context.Context) ([]DocRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT path, hash, size_bytes, mtime_unix, chunk_count, status, indexed_at, index_error
		FROM documents ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var records []DocRecord
	for rows.Next() {
		var rec DocRecord
		if err := rows.Scan(&rec.Path, &rec.Hash, &rec.SizeBytes, &rec.MtimeUnix,
			&rec.ChunkCount, &rec.Status, &rec.IndexedAt, &rec.IndexError); err != nil {
			return nil, fmt.Errorf("failed to scan document record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

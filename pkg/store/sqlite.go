package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	createDocumentsTableSQL = `
  CREATE TABLE IF NOT EXISTS documents (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  rev TEXT NOT NULL,
  kind TEXT NOT NULL,
  deleted INTEGER NOT NULL DEFAULT 0,
  body BLOB
  )`

	getDocumentSQL  = `SELECT id, rev, kind, deleted, body FROM documents WHERE id = ?`
	allDocumentsSQL = `SELECT id, rev, kind, deleted, body FROM documents ORDER BY seq`

	// seq is kept from the first insert so query order is creation order.
	upsertDocumentSQL = `
  INSERT INTO documents (id, rev, kind, deleted, body) VALUES (?, ?, ?, ?, ?)
  ON CONFLICT(id) DO UPDATE SET
    rev = excluded.rev,
    kind = excluded.kind,
    deleted = excluded.deleted,
    body = excluded.body`
)

// SQLiteStore keeps documents in a single SQLite table.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite creates or opens the database at path.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	o := newOptions(opts)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	// SQLite has a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		createDocumentsTableSQL,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: execute %q: %w", stmt, err)
		}
	}

	o.logger.Debug("opened sqlite store", "path", path)
	return &SQLiteStore{db: db, logger: o.logger}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc     Document
		deleted int
		body    []byte
	)
	if err := row.Scan(&doc.ID, &doc.Rev, &doc.Kind, &deleted, &body); err != nil {
		return nil, err
	}
	doc.Deleted = deleted != 0
	if len(body) > 0 {
		doc.Body = body
	}
	return &doc, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx, getDocumentSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	if doc.Deleted {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

func (s *SQLiteStore) Put(ctx context.Context, doc *Document) (Result, error) {
	if err := prepare(doc); err != nil {
		return Result{}, err
	}
	return s.write(ctx, doc)
}

func (s *SQLiteStore) Remove(ctx context.Context, doc *Document) (Result, error) {
	t, err := prepareRemove(doc)
	if err != nil {
		return Result{}, err
	}
	return s.write(ctx, t)
}

func (s *SQLiteStore) write(ctx context.Context, doc *Document) (Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	cur, err := scanDocument(tx.QueryRowContext(ctx, getDocumentSQL, doc.ID))
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return Result{}, fmt.Errorf("store: get %s: %w", doc.ID, err)
		}
		cur = nil
	}
	next, err := resolve(cur, doc)
	if err != nil {
		return Result{}, err
	}
	if err := upsert(ctx, tx, next); err != nil {
		return Result{}, err
	}
	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("store: commit %s: %w", doc.ID, err)
	}
	return Result{ID: next.ID, Rev: next.Rev}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, doc *Document) error {
	deleted := 0
	if doc.Deleted {
		deleted = 1
	}
	var body []byte
	if len(doc.Body) > 0 {
		body = doc.Body
	}
	if _, err := db.ExecContext(ctx, upsertDocumentSQL, doc.ID, doc.Rev, doc.Kind, deleted, body); err != nil {
		return fmt.Errorf("store: write %s: %w", doc.ID, err)
	}
	return nil
}

func (s *SQLiteStore) BulkWrite(ctx context.Context, docs []*Document) []Result {
	return bulk(ctx, s, docs)
}

func (s *SQLiteStore) Query(ctx context.Context, kind string, match func(*Document) bool) ([]*Document, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Document, 0, len(all))
	for _, doc := range all {
		if matches(doc, kind, match) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, allDocumentsSQL)
	if err != nil {
		return nil, fmt.Errorf("store: list documents: %w", err)
	}
	defer rows.Close()

	var all []*Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan document: %w", err)
		}
		all = append(all, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list documents: %w", err)
	}
	return all, nil
}

func (s *SQLiteStore) Replace(ctx context.Context, doc *Document) error {
	if err := validID(doc.ID); err != nil {
		return err
	}
	return upsert(ctx, s.db, doc)
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

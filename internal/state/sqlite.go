package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database, creating its directory
// when needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path + "?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// OpenAndMigrate opens the database at path and applies pending migrations.
func OpenAndMigrate(path string) (*SQLiteStore, error) {
	s := NewSQLiteStore()
	if err := s.Open(path); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// SavePage stores blocks as the latest state of the page and appends a
// revision. The page is created on first save.
func (s *SQLiteStore) SavePage(ctx context.Context, slug, title string, blocks []block.Instance, note string) (*Revision, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if blocks == nil {
		blocks = []block.Instance{}
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blocks: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO pages (slug, title, blocks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			blocks = excluded.blocks,
			updated_at = excluded.updated_at
	`, slug, title, string(data), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to save page: %w", err)
	}

	var number int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) + 1 FROM revisions WHERE slug = ?`, slug,
	).Scan(&number)
	if err != nil {
		return nil, fmt.Errorf("failed to number revision: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO revisions (slug, number, blocks, note, created_at) VALUES (?, ?, ?, ?, ?)`,
		slug, number, string(data), note, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save revision: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit page: %w", err)
	}

	return &Revision{Slug: slug, Number: number, Note: note, Blocks: blocks, CreatedAt: now}, nil
}

// GetPage returns the latest state of a page.
func (s *SQLiteStore) GetPage(ctx context.Context, slug string) (*Page, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	page := &Page{Slug: slug}
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT p.title, p.blocks, p.created_at, p.updated_at,
			(SELECT COUNT(*) FROM revisions r WHERE r.slug = p.slug)
		FROM pages p WHERE p.slug = ?
	`, slug).Scan(&page.Title, &data, &page.CreatedAt, &page.UpdatedAt, &page.Revisions)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	if page.Blocks, err = decodeBlocks(data); err != nil {
		return nil, err
	}
	return page, nil
}

// ListPages returns every page ordered by slug.
func (s *SQLiteStore) ListPages(ctx context.Context) ([]PageSummary, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.slug, p.title, p.blocks, p.updated_at,
			(SELECT COUNT(*) FROM revisions r WHERE r.slug = p.slug)
		FROM pages p ORDER BY p.slug
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pages []PageSummary
	for rows.Next() {
		var p PageSummary
		var data string
		if err := rows.Scan(&p.Slug, &p.Title, &data, &p.UpdatedAt, &p.Revisions); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		blocks, err := decodeBlocks(data)
		if err != nil {
			return nil, err
		}
		p.Blocks = len(blocks)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// DeletePage removes a page and its revisions.
func (s *SQLiteStore) DeletePage(ctx context.Context, slug string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE slug = ?`, slug)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPageNotFound, slug)
	}
	return nil
}

// ListRevisions returns the revisions of a page, newest first.
func (s *SQLiteStore) ListRevisions(ctx context.Context, slug string) ([]Revision, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT number, note, blocks, created_at FROM revisions WHERE slug = ? ORDER BY number DESC`,
		slug,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var revisions []Revision
	for rows.Next() {
		r := Revision{Slug: slug}
		var data string
		if err := rows.Scan(&r.Number, &r.Note, &data, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		if r.Blocks, err = decodeBlocks(data); err != nil {
			return nil, err
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// GetRevision returns one revision of a page.
func (s *SQLiteStore) GetRevision(ctx context.Context, slug string, number int) (*Revision, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	r := &Revision{Slug: slug, Number: number}
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT note, blocks, created_at FROM revisions WHERE slug = ? AND number = ?`,
		slug, number,
	).Scan(&r.Note, &data, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s revision %d", ErrPageNotFound, slug, number)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}

	if r.Blocks, err = decodeBlocks(data); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeBlocks(data string) ([]block.Instance, error) {
	var blocks []block.Instance
	if err := json.Unmarshal([]byte(data), &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	return blocks, nil
}

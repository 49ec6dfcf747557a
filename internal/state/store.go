// Package state persists pages and their revision history in SQLite.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// ErrPageNotFound is returned when a page or revision does not exist.
var ErrPageNotFound = errors.New("page not found")

// Page is the latest saved state of a page.
type Page struct {
	Slug      string
	Title     string
	Blocks    []block.Instance
	CreatedAt time.Time
	UpdatedAt time.Time
	// Revisions is the number of saved revisions.
	Revisions int
}

// PageSummary is a page listing entry without its blocks.
type PageSummary struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Blocks    int       `json:"blocks"`
	Revisions int       `json:"revisions"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Revision is one saved version of a page.
type Revision struct {
	Slug      string
	Number    int
	Note      string
	Blocks    []block.Instance
	CreatedAt time.Time
}

// Store persists pages.
type Store interface {
	SavePage(ctx context.Context, slug, title string, blocks []block.Instance, note string) (*Revision, error)
	GetPage(ctx context.Context, slug string) (*Page, error)
	ListPages(ctx context.Context) ([]PageSummary, error)
	DeletePage(ctx context.Context, slug string) error
	ListRevisions(ctx context.Context, slug string) ([]Revision, error)
	GetRevision(ctx context.Context, slug string, number int) (*Revision, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)

package workspace

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/document"
	"github.com/leapstack-labs/pagecraft/internal/loader"
	"github.com/leapstack-labs/pagecraft/internal/state"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// ErrNoPagesDir is returned when creating a file-backed page without a
// pages directory.
var ErrNoPagesDir = errors.New("no pages directory configured")

// Config configures a Manager.
type Config struct {
	Store    state.Store
	Registry *blocks.Registry
	Presets  *document.Presets
	PagesDir string
	Logger   *slog.Logger
}

// Manager opens pages on demand and keeps them open until its context ends.
type Manager struct {
	ctx context.Context
	cfg Config

	mu   sync.Mutex
	open map[string]*Workspace
}

// NewManager creates a manager. Workspace loops stop when ctx is cancelled.
func NewManager(ctx context.Context, cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Registry == nil {
		cfg.Registry = blocks.NewRegistry()
	}
	if cfg.Presets == nil {
		cfg.Presets = document.BuiltinPresets()
	}
	return &Manager{
		ctx:  ctx,
		cfg:  cfg,
		open: make(map[string]*Workspace),
	}
}

// Registry returns the block registry pages are edited against.
func (m *Manager) Registry() *blocks.Registry {
	return m.cfg.Registry
}

// Presets returns the style presets offered in the inspector.
func (m *Manager) Presets() *document.Presets {
	return m.cfg.Presets
}

// Open returns the workspace for slug, loading the page the first time.
// The latest saved revision wins over the page file; the file is still
// tracked for write-back and reloads.
func (m *Manager) Open(ctx context.Context, slug string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ws, ok := m.open[slug]; ok {
		return ws, nil
	}

	title, path, list, err := m.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	normalized, repairs := loader.Normalize(list)
	if repairs.Changed() {
		m.cfg.Logger.Info("repaired page blocks",
			"page", slug, "ids", repairs.IDs, "content", repairs.Content)
		if path != "" {
			page := &loader.Page{Slug: slug, Title: title, Blocks: normalized}
			if err := loader.Save(path, page); err != nil {
				m.cfg.Logger.Warn("failed to write repaired page file", "path", path, "error", err)
			}
		}
	}

	ws := newWorkspace(workspaceConfig{
		slug:     slug,
		title:    title,
		path:     path,
		blocks:   normalized,
		registry: m.cfg.Registry,
		presets:  m.cfg.Presets,
		store:    m.cfg.Store,
		logger:   m.cfg.Logger,
	})
	go func() {
		_ = ws.loop.Run(m.ctx)
	}()

	m.open[slug] = ws
	m.cfg.Logger.Debug("opened page", "page", slug, "blocks", len(normalized), "file", path)
	return ws, nil
}

func (m *Manager) load(ctx context.Context, slug string) (string, string, []block.Instance, error) {
	var path string
	if m.hasPagesDir() {
		if p, err := loader.Find(m.cfg.PagesDir, slug); err == nil {
			path = p
		}
	}

	if m.cfg.Store != nil {
		page, err := m.cfg.Store.GetPage(ctx, slug)
		switch {
		case err == nil:
			return page.Title, path, page.Blocks, nil
		case !errors.Is(err, state.ErrPageNotFound):
			return "", "", nil, fmt.Errorf("failed to load page %s: %w", slug, err)
		}
	}

	if path == "" {
		return "", "", nil, fmt.Errorf("%w: %s", state.ErrPageNotFound, slug)
	}
	page, err := loader.Load(path)
	if err != nil {
		return "", "", nil, err
	}
	return page.Title, path, page.Blocks, nil
}

// Create starts a new empty page. When a pages directory is configured the
// page gets a YAML file there; otherwise it only lives in the store.
func (m *Manager) Create(ctx context.Context, slug, title string) (*Workspace, error) {
	if m.cfg.PagesDir != "" {
		path := filepath.Join(m.cfg.PagesDir, slug+".yaml")
		page := &loader.Page{Slug: slug, Title: title, Blocks: []block.Instance{}}
		if err := loader.Save(path, page); err != nil {
			return nil, err
		}
	} else if m.cfg.Store != nil {
		if _, err := m.cfg.Store.SavePage(ctx, slug, title, nil, "created"); err != nil {
			return nil, err
		}
	} else {
		return nil, ErrNoPagesDir
	}
	return m.Open(ctx, slug)
}

// FileChanged pushes the content of a changed page file into its open
// workspace. Files for pages that are not open are ignored.
func (m *Manager) FileChanged(ctx context.Context, path string) error {
	if !loader.IsPageFile(path) {
		return nil
	}
	slug := loader.SlugFromPath(path)

	m.mu.Lock()
	ws, ok := m.open[slug]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	page, err := loader.Load(path)
	if err != nil {
		return err
	}
	m.cfg.Logger.Debug("page file changed", "page", slug, "path", path)
	return ws.External(ctx, page.Title, page.Blocks)
}

// Entry is one row of the page index.
type Entry struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Blocks    int       `json:"blocks"`
	Revisions int       `json:"revisions"`
	File      string    `json:"file,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// Pages lists every page known to the store or present in the pages
// directory, ordered by slug.
func (m *Manager) Pages(ctx context.Context) ([]Entry, error) {
	bySlug := make(map[string]*Entry)

	if m.cfg.Store != nil {
		saved, err := m.cfg.Store.ListPages(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range saved {
			bySlug[p.Slug] = &Entry{
				Slug:      p.Slug,
				Title:     p.Title,
				Blocks:    p.Blocks,
				Revisions: p.Revisions,
				UpdatedAt: p.UpdatedAt,
			}
		}
	}

	if m.hasPagesDir() {
		paths, err := loader.Discover(m.cfg.PagesDir)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			slug := loader.SlugFromPath(path)
			e, ok := bySlug[slug]
			if !ok {
				e = &Entry{Slug: slug}
				bySlug[slug] = e
			}
			e.File = path
			if ok {
				continue
			}
			page, err := loader.Load(path)
			if err != nil {
				e.Error = err.Error()
				continue
			}
			e.Title = page.Title
			e.Blocks = len(page.Blocks)
		}
	}

	entries := make([]Entry, 0, len(bySlug))
	for _, e := range bySlug {
		entries = append(entries, *e)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Slug, b.Slug)
	})
	return entries, nil
}

func (m *Manager) hasPagesDir() bool {
	if m.cfg.PagesDir == "" {
		return false
	}
	info, err := os.Stat(m.cfg.PagesDir)
	return err == nil && info.IsDir()
}

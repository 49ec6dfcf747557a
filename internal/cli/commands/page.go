package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/pagecraft/internal/loader"
	"github.com/leapstack-labs/pagecraft/internal/state"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// errPageNotFound is returned when a page argument matches neither a file,
// a page in the pages directory, nor a stored page.
var errPageNotFound = errors.New("page not found")

// loadedPage is a page resolved from a command argument.
type loadedPage struct {
	Slug   string
	Title  string
	Blocks []block.Instance
	// Source is the file the page came from, or "store".
	Source string
}

// DisplayTitle returns the title, or the slug for untitled pages.
func (p *loadedPage) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Slug
}

// loadPage resolves arg as a file path, then as a slug in the pages
// directory, then as a slug in the page store. The store is only opened
// when it already exists. Blocks come back normalized.
func loadPage(ctx context.Context, cmdCtx *CommandContext, arg string) (*loadedPage, error) {
	path := ""
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		path = arg
	} else if found, err := loader.Find(cmdCtx.Cfg.PagesDir, arg); err == nil {
		path = found
	}

	if path != "" {
		page, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		blocks, repairs := loader.Normalize(page.Blocks)
		if repairs.Changed() {
			cmdCtx.Logger.Debug("repaired page blocks", "path", path, "ids", repairs.IDs, "content", repairs.Content)
		}
		return &loadedPage{Slug: page.Slug, Title: page.Title, Blocks: blocks, Source: path}, nil
	}

	if cmdCtx.Cfg.StatePath == ":memory:" {
		return nil, fmt.Errorf("%w: %s", errPageNotFound, arg)
	}
	if _, err := os.Stat(cmdCtx.Cfg.StatePath); err != nil {
		return nil, fmt.Errorf("%w: %s", errPageNotFound, arg)
	}

	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	page, err := store.GetPage(ctx, arg)
	if errors.Is(err, state.ErrPageNotFound) {
		return nil, fmt.Errorf("%w: %s", errPageNotFound, arg)
	}
	if err != nil {
		return nil, err
	}
	blocks, _ := loader.Normalize(page.Blocks)
	return &loadedPage{Slug: page.Slug, Title: page.Title, Blocks: blocks, Source: "store"}, nil
}

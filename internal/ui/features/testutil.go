// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/publish"
	"github.com/leapstack-labs/pagecraft/internal/state"
	"github.com/leapstack-labs/pagecraft/internal/testutil"
	"github.com/leapstack-labs/pagecraft/internal/ui/notifier"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
	"github.com/leapstack-labs/pagecraft/pkg/style"
)

// TestPage is a page file written into the fixture's pages directory.
type TestPage struct {
	Slug string
	YAML string
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Store        *state.SQLiteStore
	Manager      *workspace.Manager
	Renderer     publish.Renderer
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
	PagesDir     string
}

// SetupTestFixture creates an in-memory store, a pages directory holding
// pages, and a workspace manager over both.
func SetupTestFixture(t *testing.T, pages ...TestPage) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store, err := state.OpenAndMigrate(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	pagesDir := filepath.Join(t.TempDir(), "pages")
	require.NoError(t, os.MkdirAll(pagesDir, 0750))
	for _, p := range pages {
		path := filepath.Join(pagesDir, p.Slug+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(p.YAML), 0600))
	}

	registry := blocks.NewRegistry()
	manager := workspace.NewManager(ctx, workspace.Config{
		Store:    store,
		Registry: registry,
		PagesDir: pagesDir,
		Logger:   logger,
	})

	return &TestFixture{
		Store:   store,
		Manager: manager,
		Renderer: publish.Renderer{
			Registry: registry,
			Resolver: style.NewResolver(style.DefaultTokens()),
		},
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
		PagesDir:     pagesDir,
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	return RequestWithPathParams(r, key, value)
}

// RequestWithPathParams wraps a request with chi URL params given as
// alternating keys and values.
func RequestWithPathParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

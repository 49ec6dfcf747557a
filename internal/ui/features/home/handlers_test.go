package home

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/ui/features"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T, pages ...features.TestPage) (*Handlers, *features.TestFixture) {
	t.Helper()

	fixture := features.SetupTestFixture(t, pages...)

	handlers := NewHandlers(
		fixture.Manager,
		fixture.Notifier,
		true, // isDev
	)

	return handlers, fixture
}

var landing = features.TestPage{
	Slug: "landing",
	YAML: "title: Landing\nblocks:\n  - kind: hero\n    blockId: hero-aaaaaa\n    content: {heading: Hi}\n",
}

// =============================================================================
// HomePage Tests - Full HTML page responses with server-rendered content
// =============================================================================

func TestHomePage(t *testing.T) {
	tests := []struct {
		name     string
		pages    []features.TestPage
		wantBody []string
	}{
		{
			name: "empty index",
			wantBody: []string{
				"<!doctype html>",
				"<title>Pages - Pagecraft</title>",
				"data-init",
				"/updates",
				"No pages yet.",
			},
		},
		{
			name:  "lists page files",
			pages: []features.TestPage{landing},
			wantBody: []string{
				`href="/pages/landing"`,
				">Landing</a>",
				`data-slug="landing"`,
			},
		},
		{
			name:  "shows broken files",
			pages: []features.TestPage{{Slug: "broken", YAML: "sections: []"}},
			wantBody: []string{
				"text-destructive",
				"unknown field",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t, tt.pages...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			h.HomePage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want, "response should contain %q", want)
			}
		})
	}
}

func TestHomePage_IncludesStoredPages(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	_, err := fixture.Store.SavePage(context.Background(), "pricing", "Pricing", nil, "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HomePage(rec, req)

	assert.Contains(t, rec.Body.String(), `href="/pages/pricing"`)
}

// =============================================================================
// CreatePage
// =============================================================================

func TestCreatePage(t *testing.T) {
	h, fixture := setupTestHandlers(t, landing)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"creates and redirects", `{"title": "About Us"}`, "/pages/about-us"},
		{"needs a title", `{"title": "  "}`, "Give the page a title first."},
		{"rejects existing", `{"title": "Landing"}`, "already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/pages", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.CreatePage(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	_, err := os.Stat(filepath.Join(fixture.PagesDir, "about-us.yaml"))
	assert.NoError(t, err)
}

// =============================================================================
// HomePageUpdates Tests - SSE endpoint for live updates only
// =============================================================================

func TestHomePageUpdates_SendsUpdateOnBroadcast(t *testing.T) {
	h, fixture := setupTestHandlers(t, landing)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)

	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.HomePageUpdates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Notifier.Broadcast()

	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1, "should have at least 1 SSE event from broadcast")
	assert.Contains(t, body, `id="page-list"`)
	assert.Contains(t, body, "/pages/landing")
}

func TestHomePageUpdates_NoInitialState(t *testing.T) {
	h, _ := setupTestHandlers(t, landing)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)

	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	h.HomePageUpdates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without broadcast")
}

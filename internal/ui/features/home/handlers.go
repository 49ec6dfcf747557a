package home

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gosimple/slug"
	"github.com/starfederation/datastar-go/datastar"

	commonComponents "github.com/leapstack-labs/pagecraft/internal/ui/features/common/components"
	"github.com/leapstack-labs/pagecraft/internal/ui/features/home/pages"
	"github.com/leapstack-labs/pagecraft/internal/ui/notifier"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
)

// Handlers provides HTTP handlers for the home feature.
type Handlers struct {
	manager  *workspace.Manager
	notifier *notifier.Notifier
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(manager *workspace.Manager, notify *notifier.Notifier, isDev bool) *Handlers {
	return &Handlers{
		manager:  manager,
		notifier: notify,
		isDev:    isDev,
	}
}

// HomePage renders the page index.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	entries, err := h.manager.Pages(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := pages.HomePage(h.isDev, entries).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HomePageUpdates is the long-lived SSE endpoint for the page index. It
// redraws the list whenever the pages directory changes.
func (h *Handlers) HomePageUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			entries, err := h.manager.Pages(ctx)
			if err != nil {
				_ = sse.ConsoleError(err)
				continue
			}
			if err := sse.PatchElementTempl(pages.PageList(entries)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

type createSignals struct {
	Title string `json:"title"`
}

// CreatePage starts a new page and opens it in the builder.
func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	var signals createSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	title := strings.TrimSpace(signals.Title)
	pageSlug := slug.Make(title)
	if pageSlug == "" {
		_ = sse.PatchElementTempl(commonComponents.Notice("Give the page a title first.", true))
		return
	}

	if _, err := h.manager.Open(r.Context(), pageSlug); err == nil {
		_ = sse.PatchElementTempl(commonComponents.Notice("A page called "+pageSlug+" already exists.", true))
		return
	}
	if _, err := h.manager.Create(r.Context(), pageSlug, title); err != nil {
		msg := err.Error()
		if errors.Is(err, workspace.ErrNoPagesDir) {
			msg = "No pages directory or store is configured."
		}
		_ = sse.PatchElementTempl(commonComponents.Notice(msg, true))
		return
	}

	h.notifier.Broadcast()
	_ = sse.Redirect("/pages/" + pageSlug)
}

// Package builder provides the page editor: structure list, live preview
// and block inspector, kept in sync over SSE.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/pagecraft/internal/document"
	"github.com/leapstack-labs/pagecraft/internal/publish"
	"github.com/leapstack-labs/pagecraft/internal/state"
	"github.com/leapstack-labs/pagecraft/internal/ui/features/builder/pages"
	commonComponents "github.com/leapstack-labs/pagecraft/internal/ui/features/common/components"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// SessionName is the cookie session holding per-browser editor settings.
const SessionName = "pagecraft"

const deviceKey = "device"

// Handlers provides HTTP handlers for the builder feature.
type Handlers struct {
	manager      *workspace.Manager
	renderer     publish.Renderer
	sessionStore sessions.Store
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(manager *workspace.Manager, renderer publish.Renderer, sessionStore sessions.Store, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		manager:      manager,
		renderer:     renderer,
		sessionStore: sessionStore,
		logger:       logger,
		isDev:        isDev,
	}
}

// open resolves the {slug} URL parameter, writing 404 when the page does
// not exist.
func (h *Handlers) open(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	slug := chi.URLParam(r, "slug")
	ws, err := h.manager.Open(r.Context(), slug)
	if errors.Is(err, state.ErrPageNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return ws, true
}

func (h *Handlers) device(r *http.Request) document.Device {
	session, err := h.sessionStore.Get(r, SessionName)
	if err != nil {
		return document.DeviceResponsive
	}
	name, _ := session.Values[deviceKey].(string)
	return document.ParseDevice(name)
}

func (h *Handlers) data(ctx context.Context, ws *workspace.Workspace, device document.Device) (pages.Data, error) {
	view, err := ws.View(ctx)
	if err != nil {
		return pages.Data{}, err
	}
	return pages.Data{
		View:     view,
		Device:   device,
		Registry: h.manager.Registry(),
		Renderer: h.renderer,
		Presets:  h.manager.Presets().List(),
		IsDev:    h.isDev,
		Signals:  initialSignals(view),
	}, nil
}

// BuilderPage renders the editor for one page.
func (h *Handlers) BuilderPage(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.open(w, r)
	if !ok {
		return
	}
	d, err := h.data(r.Context(), ws, h.device(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := pages.BuilderPage(d).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RenderPage writes the current, possibly unsaved, state of the page as a
// standalone document.
func (h *Handlers) RenderPage(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.open(w, r)
	if !ok {
		return
	}
	view, err := ws.View(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	title := view.Title
	if title == "" {
		title = view.Slug
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Document(title, view.Blocks).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// BuilderUpdates is the long-lived SSE endpoint of the editor. The page is
// already rendered; this only pushes changes. The inspector is redrawn
// only when the workspace asks for it, so a user's typing is never
// overwritten by the echo of their own edit.
func (h *Handlers) BuilderUpdates(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.open(w, r)
	if !ok {
		return
	}
	device := h.device(r)
	rev, _ := strconv.ParseUint(r.URL.Query().Get("rev"), 10, 64)

	sse := datastar.NewSSE(w, r)

	updates := ws.Subscribe()
	defer ws.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendView(ctx, sse, ws, device, &rev); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) sendView(ctx context.Context, sse *datastar.ServerSentEventGenerator, ws *workspace.Workspace, device document.Device, rev *uint64) error {
	d, err := h.data(ctx, ws, device)
	if err != nil {
		return err
	}

	for _, c := range []templ.Component{
		pages.Status(d.View),
		pages.Structure(d),
		pages.Preview(d),
		commonComponents.Notice(d.View.Notice, false),
	} {
		if err := sse.PatchElementTempl(c); err != nil {
			return err
		}
	}

	if d.View.InspectorRev != *rev {
		*rev = d.View.InspectorRev
		if err := sse.PatchElementTempl(pages.Inspector(d)); err != nil {
			return err
		}
		var signals inspectorSignals
		if b, ok := d.View.SelectedBlock(); ok {
			signals = signalsFor(b)
		}
		return sse.MarshalAndPatchSignals(signals)
	}
	if _, ok := d.View.SelectedBlock(); ok {
		return sse.PatchElementTempl(pages.Issues(d.View))
	}
	return nil
}

// action runs fn against the page and reports failures in the notice area.
// Signals, when wanted, are read before the SSE stream starts.
func (h *Handlers) action(w http.ResponseWriter, r *http.Request, signals *builderSignals, fn func(ctx context.Context, ws *workspace.Workspace) (string, error)) {
	ws, ok := h.open(w, r)
	if !ok {
		return
	}
	if signals != nil {
		if err := datastar.ReadSignals(r, signals); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	sse := datastar.NewSSE(w, r)
	message, err := fn(r.Context(), ws)
	if err != nil {
		h.logger.Debug("builder action failed", "path", r.URL.Path, "error", err)
		_ = sse.PatchElementTempl(commonComponents.Notice(err.Error(), true))
		return
	}
	if message != "" {
		_ = sse.PatchElementTempl(commonComponents.Notice(message, false))
	}
}

func index(r *http.Request) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, fmt.Errorf("invalid block index %q", chi.URLParam(r, "index"))
	}
	return i, nil
}

// Select makes a block the one being edited.
func (h *Handlers) Select(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, nil, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		i, err := index(r)
		if err != nil {
			return "", err
		}
		return "", ws.Select(ctx, i)
	})
}

// Append adds a starter block of the {kind} in the URL.
func (h *Handlers) Append(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, nil, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		return "", ws.Append(ctx, block.Kind(chi.URLParam(r, "kind")))
	})
}

// Move shifts a block by {delta}.
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, nil, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		i, err := index(r)
		if err != nil {
			return "", err
		}
		delta, err := strconv.Atoi(chi.URLParam(r, "delta"))
		if err != nil {
			return "", fmt.Errorf("invalid move delta %q", chi.URLParam(r, "delta"))
		}
		return "", ws.Move(ctx, i, delta)
	})
}

// Duplicate copies a block below itself.
func (h *Handlers) Duplicate(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, nil, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		i, err := index(r)
		if err != nil {
			return "", err
		}
		return "", ws.Duplicate(ctx, i)
	})
}

// Remove deletes a block.
func (h *Handlers) Remove(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, nil, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		i, err := index(r)
		if err != nil {
			return "", err
		}
		return "", ws.Remove(ctx, i)
	})
}

// ApplyPreset applies the preset chosen in the inspector.
func (h *Handlers) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	var signals builderSignals
	h.action(w, r, &signals, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		i, err := index(r)
		if err != nil {
			return "", err
		}
		if signals.Preset == "" {
			return "", fmt.Errorf("choose a preset first")
		}
		return "", ws.ApplyPreset(ctx, i, signals.Preset)
	})
}

// Inspect submits the inspector fields for the selected block.
func (h *Handlers) Inspect(w http.ResponseWriter, r *http.Request) {
	var signals builderSignals
	h.action(w, r, &signals, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		e, err := signals.edit()
		if err != nil {
			return "", err
		}
		return "", ws.Edit(ctx, e)
	})
}

// Save stores a revision of the page.
func (h *Handlers) Save(w http.ResponseWriter, r *http.Request) {
	var signals builderSignals
	h.action(w, r, &signals, func(ctx context.Context, ws *workspace.Workspace) (string, error) {
		rev, err := ws.Save(ctx, signals.Note)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Saved revision %d", rev.Number), nil
	})
}

// SetDevice remembers the preview device for this browser and resizes the
// frame.
func (h *Handlers) SetDevice(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.open(w, r)
	if !ok {
		return
	}
	device := document.ParseDevice(chi.URLParam(r, "device"))

	session, _ := h.sessionStore.Get(r, SessionName)
	session.Values[deviceKey] = string(device)
	if err := session.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	d, err := h.data(r.Context(), ws, device)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(pages.Frame(d)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.PatchElementTempl(pages.Toolbar(d))
}

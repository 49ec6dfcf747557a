// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/pagecraft/internal/publish"
	builderFeature "github.com/leapstack-labs/pagecraft/internal/ui/features/builder"
	homeFeature "github.com/leapstack-labs/pagecraft/internal/ui/features/home"
	"github.com/leapstack-labs/pagecraft/internal/ui/notifier"
	"github.com/leapstack-labs/pagecraft/internal/ui/resources"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
)

// Deps are the shared services handed to every feature.
type Deps struct {
	Manager      *workspace.Manager
	Renderer     publish.Renderer
	SessionStore sessions.Store
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps, isDev bool) error {
	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	if err := homeFeature.SetupRoutes(router, deps.Manager, deps.Notifier, isDev); err != nil {
		return err
	}

	if err := builderFeature.SetupRoutes(router, deps.Manager, deps.Renderer, deps.SessionStore, deps.Logger, isDev); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

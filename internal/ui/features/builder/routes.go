package builder

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/pagecraft/internal/publish"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
)

// SetupRoutes configures routes for the builder feature.
func SetupRoutes(
	router chi.Router,
	manager *workspace.Manager,
	renderer publish.Renderer,
	sessionStore sessions.Store,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(manager, renderer, sessionStore, logger, isDev)

	router.Route("/pages/{slug}", func(r chi.Router) {
		r.Get("/", handlers.BuilderPage)
		r.Get("/updates", handlers.BuilderUpdates)
		r.Get("/render", handlers.RenderPage)

		r.Post("/append/{kind}", handlers.Append)
		r.Post("/blocks/{index}/select", handlers.Select)
		r.Post("/blocks/{index}/move/{delta}", handlers.Move)
		r.Post("/blocks/{index}/duplicate", handlers.Duplicate)
		r.Post("/blocks/{index}/preset", handlers.ApplyPreset)
		r.Delete("/blocks/{index}", handlers.Remove)

		r.Post("/inspector", handlers.Inspect)
		r.Post("/save", handlers.Save)
		r.Post("/device/{device}", handlers.SetDevice)
	})

	return nil
}

// Package home provides the page index of the editor UI.
package home

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/pagecraft/internal/ui/notifier"
	"github.com/leapstack-labs/pagecraft/internal/workspace"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(
	router chi.Router,
	manager *workspace.Manager,
	notify *notifier.Notifier,
	isDev bool,
) error {
	handlers := NewHandlers(manager, notify, isDev)

	router.Get("/", handlers.HomePage)
	router.Get("/updates", handlers.HomePageUpdates)
	router.Post("/pages", handlers.CreatePage)

	return nil
}

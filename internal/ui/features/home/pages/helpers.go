package pages

import "github.com/leapstack-labs/pagecraft/internal/workspace"

// entryTitle falls back to the slug for untitled pages.
func entryTitle(e workspace.Entry) string {
	if e.Title == "" {
		return e.Slug
	}
	return e.Title
}

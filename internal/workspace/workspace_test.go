package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/loader"
	"github.com/leapstack-labs/pagecraft/internal/state"
	"github.com/leapstack-labs/pagecraft/internal/testutil"
	"github.com/leapstack-labs/pagecraft/pkg/block"
	"github.com/leapstack-labs/pagecraft/pkg/responsive"
)

const landingYAML = `title: Landing
blocks:
  - kind: hero
    blockId: hero-aaaaaa
    content:
      heading: Welcome
  - kind: faq
    content:
      heading: Questions
      items:
        - question: Why?
          answer: Because.
`

type fixture struct {
	manager  *Manager
	store    *state.SQLiteStore
	pagesDir string
}

func setup(t *testing.T) *fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store, err := state.OpenAndMigrate(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "landing.yaml"), []byte(landingYAML), 0o600))

	m := NewManager(ctx, Config{
		Store:    store,
		PagesDir: dir,
		Logger:   testutil.NewTestLogger(t),
	})
	return &fixture{manager: m, store: store, pagesDir: dir}
}

func (f *fixture) open(t *testing.T, slug string) *Workspace {
	t.Helper()
	ws, err := f.manager.Open(context.Background(), slug)
	require.NoError(t, err)
	return ws
}

func view(t *testing.T, ws *Workspace) View {
	t.Helper()
	v, err := ws.View(context.Background())
	require.NoError(t, err)
	return v
}

func TestManager_OpenFromFile(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")

	v := view(t, ws)
	assert.Equal(t, "Landing", v.Title)
	assert.Equal(t, filepath.Join(f.pagesDir, "landing.yaml"), v.Path)
	require.Len(t, v.Blocks, 2)
	assert.Equal(t, 0, v.Selected)
	assert.Equal(t, "landing@0", v.PreviewKey)
	assert.False(t, v.Dirty)
	assert.Equal(t, uint64(1), v.InspectorRev)

	// The faq block had no id; the repaired id is written back.
	faqID := v.Blocks[1].BlockID
	assert.GreaterOrEqual(t, len(faqID), block.MinIDLength)
	page, err := loader.Load(v.Path)
	require.NoError(t, err)
	assert.Equal(t, faqID, page.Blocks[1].BlockID)

	again := f.open(t, "landing")
	assert.Same(t, ws, again)
}

func TestManager_OpenMissing(t *testing.T) {
	f := setup(t)
	_, err := f.manager.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, state.ErrPageNotFound)
}

func TestManager_OpenPrefersSavedRevision(t *testing.T) {
	f := setup(t)
	saved := []block.Instance{{Kind: "quote", BlockID: "quote-bbbbbb", Content: map[string]any{"quote": "Saved"}}}
	_, err := f.store.SavePage(context.Background(), "landing", "Saved landing", saved, "")
	require.NoError(t, err)

	v := view(t, f.open(t, "landing"))
	assert.Equal(t, "Saved landing", v.Title)
	require.Len(t, v.Blocks, 1)
	assert.Equal(t, "quote-bbbbbb", v.Blocks[0].BlockID)
	assert.NotEmpty(t, v.Path)
}

func TestWorkspace_Edit(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()

	err := ws.Edit(ctx, Edit{
		Content:   map[string]any{"heading": "Hello there"},
		Anchor:    "Get Started!",
		ClassName: "promo",
	})
	require.NoError(t, err)

	v := view(t, ws)
	hero := v.Blocks[0]
	assert.Equal(t, "Hello there", hero.Text("heading"))
	assert.Equal(t, "center", hero.Text("alignment"), "validated defaults are applied")
	assert.Equal(t, "hero-aaaaaa", hero.BlockID)
	require.NotNil(t, hero.Advanced)
	assert.Equal(t, "get-started", hero.Advanced.AnchorID)
	assert.Equal(t, "promo", hero.Advanced.CustomClassName)
	assert.True(t, v.Dirty)
	assert.Equal(t, uint64(1), v.InspectorRev, "local edits do not redraw the inspector")
	assert.Empty(t, v.Notice)
	assert.Zero(t, v.Version)

	// Clearing every advanced field drops the settings.
	require.NoError(t, ws.Edit(ctx, Edit{Content: map[string]any{"heading": "Hello there"}}))
	assert.Nil(t, view(t, ws).Blocks[0].Advanced)
}

func TestWorkspace_EditRepeatedBlockIDs(t *testing.T) {
	f := setup(t)
	const dupes = `title: Dupes
blocks:
  - kind: richText
    blockId: same-id-123
    content:
      markdown: First
  - kind: richText
    blockId: same-id-123
    content:
      markdown: Second
`
	require.NoError(t, os.WriteFile(filepath.Join(f.pagesDir, "dupes.yaml"), []byte(dupes), 0o600))
	ws := f.open(t, "dupes")
	ctx := context.Background()

	require.NoError(t, ws.Select(ctx, 1))
	require.NoError(t, ws.Edit(ctx, Edit{Content: map[string]any{"markdown": "EDITED"}}))

	v := view(t, ws)
	require.Len(t, v.Blocks, 2)
	assert.Equal(t, "First", v.Blocks[0].Text("markdown"))
	assert.Equal(t, "EDITED", v.Blocks[1].Text("markdown"))
	assert.NotEqual(t, v.Blocks[0].BlockID, v.Blocks[1].BlockID)
}

func TestWorkspace_EditVisibilityIsExclusive(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()

	style := &block.Style{Visibility: &block.Visibility{
		HideOn:     []responsive.Breakpoint{responsive.Mobile},
		ShowOnlyOn: []responsive.Breakpoint{responsive.Desktop},
	}}
	require.NoError(t, ws.Edit(ctx, Edit{Content: map[string]any{"heading": "Hi"}, Style: style}))

	got := view(t, ws).Blocks[0].Style
	require.NotNil(t, got)
	require.NotNil(t, got.Visibility)
	assert.Empty(t, got.Visibility.HideOn)
	assert.Equal(t, []responsive.Breakpoint{responsive.Desktop}, got.Visibility.ShowOnlyOn)
	assert.Len(t, style.Visibility.HideOn, 1, "submitted style is not modified")

	style = &block.Style{Visibility: &block.Visibility{HideOn: []responsive.Breakpoint{responsive.Mobile}}}
	require.NoError(t, ws.Edit(ctx, Edit{Content: map[string]any{"heading": "Hi"}, Style: style}))
	got = view(t, ws).Blocks[0].Style
	assert.Equal(t, []responsive.Breakpoint{responsive.Mobile}, got.Visibility.HideOn)
	assert.Empty(t, got.Visibility.ShowOnlyOn)
}

func TestWorkspace_EditReportsIssues(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")

	require.NoError(t, ws.Edit(context.Background(), Edit{Content: map[string]any{"heading": ""}}))

	v := view(t, ws)
	assert.Empty(t, v.Blocks[0].Text("heading"), "invalid values still reach the document")
	require.NotEmpty(t, v.Issues)
	assert.Equal(t, "heading", v.Issues[0].Field)
}

func TestWorkspace_EditWithoutSelection(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()

	require.NoError(t, ws.Remove(ctx, 0))
	require.NoError(t, ws.Remove(ctx, 0))
	assert.ErrorIs(t, ws.Edit(ctx, Edit{}), ErrNoSelection)
}

func TestWorkspace_Structure(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()

	require.NoError(t, ws.Append(ctx, "richText"))
	v := view(t, ws)
	require.Len(t, v.Blocks, 3)
	assert.Equal(t, 2, v.Selected)
	assert.Equal(t, uint64(1), v.Version)
	assert.Equal(t, uint64(2), v.InspectorRev)

	require.NoError(t, ws.Move(ctx, 2, -2))
	v = view(t, ws)
	assert.Equal(t, block.Kind("richText"), v.Blocks[0].Kind)
	assert.Equal(t, 0, v.Selected)
	assert.Equal(t, uint64(2), v.InspectorRev, "same block stays bound after a move")

	require.NoError(t, ws.Duplicate(ctx, 1))
	v = view(t, ws)
	require.Len(t, v.Blocks, 4)
	assert.NotEqual(t, v.Blocks[1].BlockID, v.Blocks[2].BlockID)

	require.NoError(t, ws.Select(ctx, 3))
	assert.Equal(t, 3, view(t, ws).Selected)

	assert.Error(t, ws.Remove(ctx, 9))
	assert.Error(t, ws.Append(ctx, "carousel"))
	assert.True(t, view(t, ws).Dirty)
}

func TestWorkspace_ApplyPreset(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()

	require.NoError(t, ws.ApplyPreset(ctx, 0, "muted"))
	v := view(t, ws)
	require.NotNil(t, v.Blocks[0].Style)
	assert.Equal(t, "muted", v.Blocks[0].Style.PresetID)
	assert.Empty(t, v.Notice)

	require.NoError(t, ws.Edit(ctx, Edit{Content: map[string]any{"heading": "x"}, Style: v.Blocks[0].Style, PresetLock: true}))
	assert.Error(t, ws.ApplyPreset(ctx, 0, "compact"))
}

func TestWorkspace_External(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()
	v := view(t, ws)

	t.Run("identical blocks are ignored", func(t *testing.T) {
		require.NoError(t, ws.External(ctx, v.Title, v.Blocks))
		after := view(t, ws)
		assert.Equal(t, v.Version, after.Version)
		assert.Equal(t, v.InspectorRev, after.InspectorRev)
	})

	t.Run("divergent change resets the inspector", func(t *testing.T) {
		changed := v.Blocks
		changed[0].Content = map[string]any{"heading": "From disk"}
		require.NoError(t, ws.External(ctx, "Landing v2", changed))

		after := view(t, ws)
		assert.Equal(t, "Landing v2", after.Title)
		assert.Equal(t, "From disk", after.Blocks[0].Text("heading"))
		assert.Equal(t, v.InspectorRev+1, after.InspectorRev)
		assert.Equal(t, NoticeReset, after.Notice)
		assert.Equal(t, v.Version+1, after.Version)
	})
}

func TestWorkspace_ExternalWithoutIDs(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()
	v := view(t, ws)

	t.Run("same kinds keep their ids", func(t *testing.T) {
		stripped := make([]block.Instance, len(v.Blocks))
		for i, b := range v.Blocks {
			b.BlockID = ""
			stripped[i] = b
		}
		require.NoError(t, ws.External(ctx, v.Title, stripped))

		after := view(t, ws)
		assert.Equal(t, v.Version, after.Version)
		assert.Equal(t, v.InspectorRev, after.InspectorRev)
		assert.Equal(t, v.Blocks[0].BlockID, after.Blocks[0].BlockID)
	})

	t.Run("replacing the edited block sets the notice", func(t *testing.T) {
		incoming := []block.Instance{{Kind: "quote", Content: map[string]any{"quote": "New"}}}
		require.NoError(t, ws.External(ctx, v.Title, incoming))

		after := view(t, ws)
		require.Len(t, after.Blocks, 1)
		assert.Equal(t, block.Kind("quote"), after.Blocks[0].Kind)
		assert.Equal(t, NoticeReset, after.Notice)
		assert.Greater(t, after.InspectorRev, v.InspectorRev)
	})
}

func TestWorkspace_Save(t *testing.T) {
	f := setup(t)
	ws := f.open(t, "landing")
	ctx := context.Background()

	require.NoError(t, ws.Edit(ctx, Edit{Content: map[string]any{"heading": "Saved heading"}}))
	rev, err := ws.Save(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, 1, rev.Number)
	assert.False(t, view(t, ws).Dirty)

	page, err := f.store.GetPage(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, "Saved heading", page.Blocks[0].Text("heading"))

	file, err := loader.Load(filepath.Join(f.pagesDir, "landing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Saved heading", file.Blocks[0].Text("heading"))

	// The watcher echo of our own write is a no-op.
	before := view(t, ws)
	require.NoError(t, f.manager.FileChanged(ctx, filepath.Join(f.pagesDir, "landing.yaml")))
	assert.Equal(t, before.Version, view(t, ws).Version)

	rev, err = ws.Save(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, rev.Number)
}

func TestManager_FileChanged(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	path := filepath.Join(f.pagesDir, "landing.yaml")

	// Pages that are not open are ignored.
	require.NoError(t, f.manager.FileChanged(ctx, path))
	require.NoError(t, f.manager.FileChanged(ctx, filepath.Join(f.pagesDir, "notes.md")))

	ws := f.open(t, "landing")
	updates := ws.Subscribe()
	defer ws.Unsubscribe(updates)

	page, err := loader.Load(path)
	require.NoError(t, err)
	page.Blocks = page.Blocks[:1]
	require.NoError(t, loader.Save(path, page))
	require.NoError(t, f.manager.FileChanged(ctx, path))

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("no update after file change")
	}
	assert.Len(t, view(t, ws).Blocks, 1)

	require.NoError(t, os.WriteFile(path, []byte("blocks: ["), 0o600))
	assert.Error(t, f.manager.FileChanged(ctx, path))
}

func TestManager_CreateAndPages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ws, err := f.manager.Create(ctx, "about", "About us")
	require.NoError(t, err)
	assert.Empty(t, view(t, ws).Blocks)
	assert.Equal(t, -1, view(t, ws).Selected)

	_, err = f.store.SavePage(ctx, "pricing", "Pricing", nil, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(f.pagesDir, "broken.yaml"), []byte("nope: 1"), 0o600))

	entries, err := f.manager.Pages(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "about", entries[0].Slug)
	assert.Equal(t, "About us", entries[0].Title)
	assert.NotEmpty(t, entries[0].File)

	assert.Equal(t, "broken", entries[1].Slug)
	assert.NotEmpty(t, entries[1].Error)

	assert.Equal(t, "landing", entries[2].Slug)
	assert.Equal(t, 2, entries[2].Blocks)

	assert.Equal(t, "pricing", entries[3].Slug)
	assert.Equal(t, 1, entries[3].Revisions)
	assert.Empty(t, entries[3].File)
}

func TestManager_CreateWithoutPagesDir(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := state.OpenAndMigrate(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	m := NewManager(ctx, Config{Store: store})
	ws, err := m.Create(ctx, "draft", "Draft")
	require.NoError(t, err)
	assert.Empty(t, view(t, ws).Path)

	_, err = NewManager(ctx, Config{}).Create(ctx, "draft", "Draft")
	assert.ErrorIs(t, err, ErrNoPagesDir)
}

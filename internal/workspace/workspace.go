// Package workspace hosts the open pages of the editor. Each open page owns
// a document controller, the edit session of its selected block, and an
// event loop that serializes every change to them.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/document"
	"github.com/leapstack-labs/pagecraft/internal/editor"
	"github.com/leapstack-labs/pagecraft/internal/loader"
	"github.com/leapstack-labs/pagecraft/internal/state"
	"github.com/leapstack-labs/pagecraft/internal/ui/notifier"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// ErrNoSelection is returned when editing with no block selected.
var ErrNoSelection = errors.New("no block selected")

// NoticeReset is shown after an external change replaced the block being
// edited.
const NoticeReset = "This block changed on disk. Unsaved edits to it were replaced."

// View is a consistent snapshot of a workspace.
type View struct {
	Slug       string
	Title      string
	Path       string
	Blocks     []block.Instance
	Selected   int
	Version    uint64
	PreviewKey string
	// InspectorRev changes whenever the inspector must be redrawn from the
	// server: a new selection or a forced reset.
	InspectorRev uint64
	Issues       []blocks.FieldIssue
	Dirty        bool
	Notice       string
}

// SelectedBlock returns the selected block, if any.
func (v View) SelectedBlock() (block.Instance, bool) {
	if v.Selected < 0 || v.Selected >= len(v.Blocks) {
		return block.Instance{}, false
	}
	return v.Blocks[v.Selected], true
}

// Edit is a set of inspector values for the selected block.
type Edit struct {
	Content    map[string]any
	Style      *block.Style
	Anchor     string
	ClassName  string
	PresetLock bool
}

// apply writes e over b. Advanced settings the inspector does not show,
// such as the call-to-action, are kept. When both visibility lists are
// set, ShowOnlyOn wins.
func (e Edit) apply(b block.Instance) block.Instance {
	b.Content = e.Content
	b.Style = visibilityOnce(e.Style)

	var adv block.Advanced
	if b.Advanced != nil {
		adv = *b.Advanced
	}
	adv.SetAnchor(e.Anchor)
	adv.CustomClassName = e.ClassName
	adv.PresetLock = e.PresetLock
	if adv == (block.Advanced{}) {
		b.Advanced = nil
	} else {
		b.Advanced = &adv
	}
	return b
}

func visibilityOnce(in *block.Style) *block.Style {
	if in == nil || in.Visibility == nil {
		return in
	}
	style := *in
	vis := *in.Visibility
	style.Visibility = nil
	if len(vis.HideOn) == 0 && len(vis.ShowOnlyOn) == 0 {
		return &style
	}
	style.SetHideOn(vis.HideOn...)
	style.SetShowOnlyOn(vis.ShowOnlyOn...)
	return &style
}

// Workspace is one open page.
type Workspace struct {
	slug  string
	title string
	path  string

	loop     *editor.Loop
	notifier *notifier.Notifier
	registry *blocks.Registry
	store    state.Store
	logger   *slog.Logger

	// Owned by the loop.
	doc          *document.Controller
	form         *editor.Replica
	session      *editor.Session
	inspectorRev uint64
	dirty        bool
	notice       string
}

type workspaceConfig struct {
	slug     string
	title    string
	path     string
	blocks   []block.Instance
	registry *blocks.Registry
	presets  *document.Presets
	store    state.Store
	logger   *slog.Logger
}

func newWorkspace(cfg workspaceConfig) *Workspace {
	logger := cfg.logger.With("page", cfg.slug)
	w := &Workspace{
		slug:     cfg.slug,
		title:    cfg.title,
		path:     cfg.path,
		loop:     editor.NewLoop(64),
		notifier: notifier.New(),
		registry: cfg.registry,
		store:    cfg.store,
		logger:   logger,
	}
	w.doc = document.New(cfg.blocks, cfg.registry,
		document.WithLogger(logger),
		document.WithPresets(cfg.presets),
	)
	w.syncSession()
	return w
}

// Slug returns the page slug.
func (w *Workspace) Slug() string {
	return w.slug
}

// Subscribe returns a channel pinged after every change.
func (w *Workspace) Subscribe() chan struct{} {
	return w.notifier.Subscribe()
}

// Unsubscribe releases a channel returned by Subscribe.
func (w *Workspace) Unsubscribe(ch chan struct{}) {
	w.notifier.Unsubscribe(ch)
}

// View returns a snapshot of the page.
func (w *Workspace) View(ctx context.Context) (View, error) {
	var v View
	err := w.loop.Do(ctx, func() {
		v = View{
			Slug:         w.slug,
			Title:        w.title,
			Path:         w.path,
			Blocks:       w.doc.Blocks(),
			Selected:     w.doc.Selected(),
			Version:      w.doc.Version(),
			PreviewKey:   document.PreviewKey(w.slug, w.doc.Version()),
			InspectorRev: w.inspectorRev,
			Dirty:        w.dirty,
			Notice:       w.notice,
		}
		if b, ok := v.SelectedBlock(); ok {
			v.Issues = issues(w.registry, b)
		}
	})
	return v, err
}

// Select changes the block being edited.
func (w *Workspace) Select(ctx context.Context, i int) error {
	return w.mutate(ctx, func() error {
		return w.doc.Select(i)
	})
}

// Append adds a starter block of kind.
func (w *Workspace) Append(ctx context.Context, kind block.Kind) error {
	return w.mutate(ctx, func() error {
		_, err := w.doc.Append(kind)
		w.markDirty(err)
		return err
	})
}

// Move shifts the block at i by delta.
func (w *Workspace) Move(ctx context.Context, i, delta int) error {
	return w.mutate(ctx, func() error {
		err := w.doc.Move(i, delta)
		w.markDirty(err)
		return err
	})
}

// Duplicate copies the block at i.
func (w *Workspace) Duplicate(ctx context.Context, i int) error {
	return w.mutate(ctx, func() error {
		_, err := w.doc.Duplicate(i)
		w.markDirty(err)
		return err
	})
}

// Remove deletes the block at i.
func (w *Workspace) Remove(ctx context.Context, i int) error {
	return w.mutate(ctx, func() error {
		err := w.doc.Remove(i)
		w.markDirty(err)
		return err
	})
}

// ApplyPreset applies a style preset to the block at i.
func (w *Workspace) ApplyPreset(ctx context.Context, i int, presetID string) error {
	return w.mutate(ctx, func() error {
		err := w.doc.ApplyPreset(i, presetID)
		w.markDirty(err)
		return err
	})
}

// Edit submits inspector values for the selected block. The values go
// through the edit session, which validates them and updates the document
// unless nothing changed.
func (w *Workspace) Edit(ctx context.Context, e Edit) error {
	return w.mutate(ctx, func() error {
		if w.form == nil {
			return ErrNoSelection
		}
		w.form.Submit(e.apply(w.form.Values()))
		return nil
	})
}

// External replaces the page's blocks with a version produced outside the
// editor, such as the page file changing on disk. Blocks equal to the
// current document are ignored. Incoming blocks without an identity keep
// the id of the block at the same position when the kinds match.
func (w *Workspace) External(ctx context.Context, title string, incoming []block.Instance) error {
	return w.mutate(ctx, func() error {
		normalized, _ := loader.Normalize(carryIDs(w.doc.Blocks(), incoming))
		if editor.Snapshot(normalized) == editor.Snapshot(w.doc.Blocks()) && title == w.title {
			return nil
		}
		w.title = title
		w.doc.Replace(normalized)
		if w.syncSession() == editor.Reset {
			w.notice = NoticeReset
		}
		return nil
	})
}

// Save stores the page as a new revision and writes it back to its page
// file when it has one.
func (w *Workspace) Save(ctx context.Context, note string) (*state.Revision, error) {
	var rev *state.Revision
	err := w.mutate(ctx, func() error {
		var err error
		blocksNow := w.doc.Blocks()
		rev, err = w.store.SavePage(ctx, w.slug, w.title, blocksNow, note)
		if err != nil {
			w.logger.Error("failed to save page", "error", err)
			return err
		}
		if w.path != "" {
			page := &loader.Page{Slug: w.slug, Title: w.title, Blocks: blocksNow}
			if err := loader.Save(w.path, page); err != nil {
				w.logger.Error("failed to write page file", "path", w.path, "error", err)
				return err
			}
		}
		w.dirty = false
		w.notice = ""
		w.logger.Info("page saved", "revision", rev.Number)
		return nil
	})
	return rev, err
}

// mutate runs fn on the loop, brings the edit session in line with the
// document and notifies subscribers.
func (w *Workspace) mutate(ctx context.Context, fn func() error) error {
	var err error
	if doErr := w.loop.Do(ctx, func() {
		err = fn()
		w.syncSession()
	}); doErr != nil {
		return doErr
	}
	w.notifier.Broadcast()
	return err
}

func (w *Workspace) markDirty(err error) {
	if err == nil {
		w.dirty = true
	}
}

// syncSession feeds the selected block to its session, or starts a new
// session when the selection moved to a different block. Replacing a
// bound session reports Reset.
func (w *Workspace) syncSession() editor.Outcome {
	b, ok := w.doc.SelectedBlock()
	if !ok {
		w.closeSession()
		return editor.Unchanged
	}
	if w.session == nil || w.session.BlockID() != b.BlockID {
		replaced := w.session != nil
		w.bind(b)
		if replaced {
			return editor.Reset
		}
		return editor.Unchanged
	}

	outcome, err := w.session.External(b)
	if err != nil {
		w.logger.Error("failed to sync edit session", "error", err)
		return editor.Unchanged
	}
	if outcome == editor.Reset {
		w.inspectorRev++
	}
	return outcome
}

func (w *Workspace) bind(b block.Instance) {
	w.closeSession()

	form := editor.NewReplica(b)
	session := editor.NewSession(b, form, editor.Options{
		Validator: w.registry,
		Scheduler: w.loop,
		OnUpdate:  w.applyEdit,
		Logger:    w.logger,
	})
	form.Watch(func() {
		if _, err := session.Changed(); err != nil {
			w.logger.Debug("change after session closed", "error", err)
		}
	})

	w.form = form
	w.session = session
	w.inspectorRev++
	w.notice = ""
}

func (w *Workspace) closeSession() {
	if w.session != nil {
		w.session.Close()
	}
	w.session = nil
	w.form = nil
}

// applyEdit writes a session update to the selected block. The session is
// always bound to the selection, so a mismatched id means the update is
// stale.
func (w *Workspace) applyEdit(b block.Instance) {
	cur, ok := w.doc.SelectedBlock()
	if !ok || cur.BlockID != b.BlockID {
		w.logger.Debug("dropped stale edit", "block", b.BlockID)
		return
	}
	if err := w.doc.Update(w.doc.Selected(), b); err != nil {
		w.logger.Error("failed to apply edit", "error", err)
		return
	}
	w.dirty = true
}

// carryIDs returns incoming with missing or short ids filled from current
// by position. An id is carried only between blocks of the same kind and
// only when no incoming block already uses it.
func carryIDs(current, incoming []block.Instance) []block.Instance {
	taken := make(map[string]bool, len(incoming))
	for _, b := range incoming {
		if len(b.BlockID) >= block.MinIDLength {
			taken[b.BlockID] = true
		}
	}
	out := slices.Clone(incoming)
	for i := range out {
		if len(out[i].BlockID) >= block.MinIDLength || i >= len(current) {
			continue
		}
		prev := current[i]
		if prev.Kind != out[i].Kind || taken[prev.BlockID] {
			continue
		}
		out[i].BlockID = prev.BlockID
		taken[prev.BlockID] = true
	}
	return out
}

func issues(r *blocks.Registry, b block.Instance) []blocks.FieldIssue {
	_, err := r.Validate(b)
	if err == nil {
		return nil
	}
	var ve *blocks.ValidationError
	if errors.As(err, &ve) {
		return ve.Issues
	}
	return []blocks.FieldIssue{{Message: err.Error()}}
}

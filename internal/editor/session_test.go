package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/blocks"
	"github.com/leapstack-labs/pagecraft/internal/testutil"
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

type harness struct {
	session *Session
	form    *Replica
	queue   *Queue
	updates []block.Instance
	resets  int
}

// countingForm counts programmatic resets so tests can tell an echo
// adoption apart from a visible replacement.
type countingForm struct {
	*Replica
	h *harness
}

func (f countingForm) Reset(b block.Instance) {
	f.h.resets++
	f.Replica.Reset(b)
}

func newHarness(t *testing.T, initial block.Instance) *harness {
	t.Helper()
	h := &harness{form: NewReplica(initial), queue: &Queue{}}
	h.session = NewSession(initial, countingForm{Replica: h.form, h: h}, Options{
		Validator: blocks.NewRegistry(),
		Scheduler: h.queue,
		OnUpdate:  func(b block.Instance) { h.updates = append(h.updates, b) },
		Logger:    testutil.NewTestLogger(t),
	})
	h.form.Watch(func() {
		_, err := h.session.Changed()
		require.NoError(t, err)
	})
	return h
}

func heroBlock(heading string) block.Instance {
	return block.Instance{
		Kind:    blocks.KindHero,
		BlockID: "hero-1234",
		Content: map[string]any{
			"heading":        heading,
			"alignment":      "center",
			"background":     "white",
			"containerWidth": "default",
		},
	}
}

func TestSession_IdempotentLocalEdit(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	h.form.SetField("heading", "Welcome")
	h.form.SetField("heading", "Welcome")

	require.Len(t, h.updates, 1)
	assert.Equal(t, "Welcome", h.updates[0].Text("heading"))
	assert.Equal(t, Snapshot(h.updates[0]), h.session.LastSynced())
}

func TestSession_UnchangedSubmitIsSuppressed(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	h.form.Submit(heroBlock("Hello"))

	assert.Empty(t, h.updates)
}

func TestSession_EchoSuppression(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	h.form.SetField("heading", "Welcome")
	require.Len(t, h.updates, 1)

	outcome, err := h.session.External(h.updates[0])
	require.NoError(t, err)
	assert.Equal(t, Unchanged, outcome)
	assert.Zero(t, h.resets)
	assert.Equal(t, Idle, h.session.State())
}

func TestSession_AdoptsNormalizedEcho(t *testing.T) {
	initial := block.Instance{
		Kind:    blocks.KindHero,
		BlockID: "hero-1234",
		Content: map[string]any{"heading": "Hello"},
	}
	h := newHarness(t, initial)

	// The document stores the validated form with defaults filled in.
	stored, err := blocks.NewRegistry().Validate(initial)
	require.NoError(t, err)

	outcome, err := h.session.External(stored)
	require.NoError(t, err)
	assert.Equal(t, Adopted, outcome)
	assert.Zero(t, h.resets)
	assert.Equal(t, Snapshot(stored), h.session.LastSynced())
	assert.Empty(t, h.updates)
}

func TestSession_DivergentExternalUpdateWins(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	// Unsaved local state that the document never saw.
	h.form.values.Content["heading"] = "Local draft"

	next := heroBlock("From elsewhere")
	outcome, err := h.session.External(next)
	require.NoError(t, err)

	assert.Equal(t, Reset, outcome)
	assert.Equal(t, 1, h.resets)
	assert.Equal(t, "From elsewhere", h.form.Values().Text("heading"))
	assert.Equal(t, Snapshot(next), h.session.LastSynced())

	// The reset's own change event was ignored.
	assert.Empty(t, h.updates)
	assert.Equal(t, Resetting, h.session.State())

	assert.Equal(t, 1, h.queue.Flush())
	assert.Equal(t, Idle, h.session.State())

	h.form.SetField("heading", "Edited after reset")
	require.Len(t, h.updates, 1)
	assert.Equal(t, "Edited after reset", h.updates[0].Text("heading"))
}

func TestSession_ChangesIgnoredWhileResetting(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	_, err := h.session.External(heroBlock("Other"))
	require.NoError(t, err)

	h.form.SetField("heading", "Too early")
	assert.Empty(t, h.updates)

	h.queue.Flush()
	h.form.SetField("heading", "On time")
	assert.Len(t, h.updates, 1)
}

func TestSession_ReleasesItselfWithoutScheduler(t *testing.T) {
	form := NewReplica(heroBlock("Hello"))
	var updates []block.Instance
	session := NewSession(heroBlock("Hello"), form, Options{
		Validator: blocks.NewRegistry(),
		OnUpdate:  func(b block.Instance) { updates = append(updates, b) },
		Logger:    testutil.NewTestLogger(t),
	})
	form.Watch(func() {
		_, err := session.Changed()
		require.NoError(t, err)
	})

	outcome, err := session.External(heroBlock("From elsewhere"))
	require.NoError(t, err)
	assert.Equal(t, Reset, outcome)
	assert.Empty(t, updates, "the reset's own change event is ignored")
	assert.Equal(t, Resetting, session.State())

	form.SetField("heading", "Edited after reset")
	assert.Equal(t, Idle, session.State())
	require.Len(t, updates, 1)
	assert.Equal(t, "Edited after reset", updates[0].Text("heading"))
}

func TestSession_InvalidValuesStillPropagate(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	h.form.SetField("heading", "")

	require.Len(t, h.updates, 1)
	assert.Equal(t, "", h.updates[0].Text("heading"))
}

func TestSession_ReattachesIdentity(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	drifted := heroBlock("Changed")
	drifted.BlockID = "something-else"
	h.form.Submit(drifted)

	require.Len(t, h.updates, 1)
	assert.Equal(t, "hero-1234", h.updates[0].BlockID)
	assert.Equal(t, blocks.KindHero, h.updates[0].Kind)
}

func TestSession_EmittedValueIsIsolated(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	h.form.SetField("heading", "Welcome")
	require.Len(t, h.updates, 1)

	h.form.values.Content["heading"] = "mutated in place"
	assert.Equal(t, "Welcome", h.updates[0].Text("heading"))
}

func TestSession_Closed(t *testing.T) {
	h := newHarness(t, heroBlock("Hello"))

	_, err := h.session.External(heroBlock("Other"))
	require.NoError(t, err)
	h.session.Close()
	h.queue.Flush()

	assert.Equal(t, Resetting, h.session.State())

	_, err = h.session.Changed()
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = h.session.External(heroBlock("Again"))
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestStateAndOutcomeStrings(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "resetting", Resetting.String())
	assert.Equal(t, "adopted", Adopted.String())
	assert.Equal(t, "reset", Reset.String())
	assert.Equal(t, "unchanged", Unchanged.String())
}

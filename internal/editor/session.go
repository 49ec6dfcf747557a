// Package editor keeps a single selected block in step with a locally
// edited form. A Session owns the snapshot of the last value both sides
// agreed on and decides, for every change on either side, whether to
// propagate it, adopt it silently, or force the form back into line.
package editor

import (
	"errors"
	"log/slog"

	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// ErrSessionClosed is returned by a session after Close.
var ErrSessionClosed = errors.New("edit session closed")

// State is the reconciliation state of a session.
type State int

const (
	// Idle accepts local changes.
	Idle State = iota
	// Resetting ignores local changes until the forced reset has flushed.
	Resetting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resetting:
		return "resetting"
	default:
		return "unknown"
	}
}

// Outcome reports what External did with an incoming value.
type Outcome int

const (
	// Unchanged means the value matched the last synced snapshot.
	Unchanged Outcome = iota
	// Adopted means the value echoed the form's own output.
	Adopted
	// Reset means the form was replaced with the value.
	Reset
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Adopted:
		return "adopted"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Form is the local editable replica of a block.
type Form interface {
	// Values returns the form's current output.
	Values() block.Instance
	// Reset replaces every field with b. Implementations may report the
	// change back synchronously.
	Reset(b block.Instance)
}

// Validator checks block content against its kind schema and returns the
// normalized instance. *blocks.Registry satisfies it.
type Validator interface {
	Validate(b block.Instance) (block.Instance, error)
}

// UpdateFunc receives every genuine local edit.
type UpdateFunc func(b block.Instance)

// Options configures a Session.
type Options struct {
	Validator Validator
	// Scheduler releases the reset guard after the current turn. Without
	// one the session queues the release itself and runs it at the start
	// of the next call that does not come from inside External.
	Scheduler Scheduler
	OnUpdate  UpdateFunc
	Logger    *slog.Logger
}

// Session reconciles one block value against one form replica.
type Session struct {
	kind    block.Kind
	blockID string

	form      Form
	validator Validator
	scheduler Scheduler
	onUpdate  UpdateFunc
	logger    *slog.Logger

	// own holds deferred work when no Scheduler was given.
	own      *Queue
	applying bool

	state      State
	lastSynced string
	closed     bool
}

// NewSession starts a session for initial. The form is expected to already
// hold initial.
func NewSession(initial block.Instance, form Form, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	scheduler := opts.Scheduler
	var own *Queue
	if scheduler == nil {
		own = &Queue{}
		scheduler = own
	}
	return &Session{
		own:        own,
		kind:       initial.Kind,
		blockID:    initial.BlockID,
		form:       form,
		validator:  opts.Validator,
		scheduler:  scheduler,
		onUpdate:   opts.OnUpdate,
		logger:     logger.With("kind", string(initial.Kind), "block", initial.BlockID),
		state:      Idle,
		lastSynced: Snapshot(initial),
	}
}

// State returns the current reconciliation state.
func (s *Session) State() State {
	return s.state
}

// LastSynced returns the snapshot both sides last agreed on.
func (s *Session) LastSynced() string {
	return s.lastSynced
}

// BlockID returns the identity of the block being edited.
func (s *Session) BlockID() string {
	return s.blockID
}

// Close ends the session. Later calls fail with ErrSessionClosed and a
// pending guard release becomes a no-op.
func (s *Session) Close() {
	s.closed = true
}

// External applies a value supplied by the document.
func (s *Session) External(next block.Instance) (Outcome, error) {
	if s.closed {
		return Unchanged, ErrSessionClosed
	}
	s.settle()
	s.applying = true
	defer func() { s.applying = false }()

	snap := Snapshot(next)
	if snap == s.lastSynced {
		return Unchanged, nil
	}

	if s.validator != nil {
		if validated, err := s.validator.Validate(s.form.Values()); err == nil && Snapshot(validated) == snap {
			s.lastSynced = snap
			s.logger.Debug("adopted external echo")
			return Adopted, nil
		}
	}

	s.state = Resetting
	s.lastSynced = snap
	s.form.Reset(next.Clone())
	s.scheduler.Defer(s.release)
	s.logger.Debug("form reset from external value")
	return Reset, nil
}

// settle runs work the session deferred to itself in an earlier turn.
func (s *Session) settle() {
	if s.own != nil {
		s.own.Flush()
	}
}

func (s *Session) release() {
	if s.closed {
		return
	}
	s.state = Idle
}

// Changed handles a change event from the form. It reports whether the
// update callback ran.
func (s *Session) Changed() (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	if !s.applying {
		s.settle()
	}
	if s.state == Resetting {
		return false, nil
	}

	raw := s.form.Values()
	result := raw
	if s.validator != nil {
		if validated, err := s.validator.Validate(raw); err == nil {
			result = validated
		} else {
			s.logger.Debug("propagating unvalidated values", "error", err)
		}
	}
	result.Kind = s.kind
	result.BlockID = s.blockID
	result = result.Clone()

	snap := Snapshot(result)
	if snap == s.lastSynced {
		s.logger.Debug("suppressed unchanged edit")
		return false, nil
	}
	s.lastSynced = snap
	if s.onUpdate != nil {
		s.onUpdate(result)
	}
	return true, nil
}

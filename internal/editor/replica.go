package editor

import (
	"github.com/leapstack-labs/pagecraft/pkg/block"
)

// Replica is the in-memory form behind the inspector. Every write, including
// a programmatic Reset, notifies watchers synchronously, the same way a form
// library's watch subscription does.
type Replica struct {
	values   block.Instance
	watchers []func()
}

// NewReplica returns a form holding a copy of b.
func NewReplica(b block.Instance) *Replica {
	return &Replica{values: b.Clone()}
}

// Watch registers fn to run after every change.
func (r *Replica) Watch(fn func()) {
	r.watchers = append(r.watchers, fn)
}

// Values returns a copy of the current form output.
func (r *Replica) Values() block.Instance {
	return r.values.Clone()
}

// Reset replaces the form contents.
func (r *Replica) Reset(b block.Instance) {
	r.values = b.Clone()
	r.notify()
}

// Submit replaces the form contents with values posted by the browser.
func (r *Replica) Submit(b block.Instance) {
	r.values = b.Clone()
	r.notify()
}

// SetField sets a single content field. A nil value removes it.
func (r *Replica) SetField(field string, value any) {
	if r.values.Content == nil {
		r.values.Content = map[string]any{}
	}
	if value == nil {
		delete(r.values.Content, field)
	} else {
		r.values.Content[field] = value
	}
	r.notify()
}

func (r *Replica) notify() {
	for _, fn := range r.watchers {
		fn()
	}
}

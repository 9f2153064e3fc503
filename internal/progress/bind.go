package progress

import (
	"slices"
	"sync"

	"beacon/internal/component"
)

const (
	defaultProgressKey = "progress"
	defaultErrorKey    = "error"
)

// Options configures how tracked progress is injected into a component.
type Options struct {
	// Strategy combines multiple actions; empty means Pure.
	Strategy Strategy
	// ProgressKey is the prop that receives the combined State.
	ProgressKey string
	// ErrorKey is the prop that receives the combined error. Empty skips it.
	ErrorKey string
}

// WithProgress injects only the combined State under opts.ProgressKey
// ("progress" when empty).
func WithProgress(t *Tracker, actions []string, opts Options) component.Decorator {
	if opts.ProgressKey == "" {
		opts.ProgressKey = defaultProgressKey
	}
	opts.ErrorKey = ""
	return Bind(t, actions, opts)
}

// WithError injects only the combined error under opts.ErrorKey ("error" when
// empty).
func WithError(t *Tracker, actions []string, opts Options) component.Decorator {
	if opts.ErrorKey == "" {
		opts.ErrorKey = defaultErrorKey
	}
	opts.ProgressKey = ""
	return Bind(t, actions, opts)
}

// Bind injects the combined snapshot of actions into every render of the
// wrapped component and re-renders it with the caller's last props whenever
// the tracker reports a change. Progress and error are read in one snapshot
// so the wrapped component never sees a new state with a stale error.
//
// Components below a binding must not update the tracker while rendering.
func Bind(t *Tracker, actions []string, opts Options) component.Decorator {
	if opts.ProgressKey == "" && opts.ErrorKey == "" {
		opts.ProgressKey = defaultProgressKey
	}
	actions = slices.Clone(actions)
	return func(inner component.Component) component.Component {
		return &binding{tracker: t, actions: actions, opts: opts, inner: inner}
	}
}

type binding struct {
	tracker *Tracker
	actions []string
	opts    Options
	inner   component.Component

	mu        sync.Mutex
	props     component.Props
	rendered  bool
	unmounted bool
	cancel    func()
}

func (b *binding) Render(props component.Props) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unmounted {
		return
	}
	b.props = props
	b.rendered = true
	if b.cancel == nil {
		b.cancel = b.tracker.Subscribe(b.actions, b.refresh)
	}
	b.renderLocked()
}

func (b *binding) refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.rendered || b.unmounted {
		return
	}
	b.renderLocked()
}

func (b *binding) renderLocked() {
	snap := b.tracker.Snapshot(b.actions, b.opts.Strategy)
	next := make(component.Props, len(b.props)+2)
	for k, v := range b.props {
		next[k] = v
	}
	if b.opts.ProgressKey != "" {
		next[b.opts.ProgressKey] = snap.Progress
	}
	if b.opts.ErrorKey != "" {
		next[b.opts.ErrorKey] = snap.Error
	}
	b.inner.Render(next)
}

// Unmount stops listening to the tracker and unmounts the wrapped component.
func (b *binding) Unmount() {
	b.mu.Lock()
	if b.unmounted {
		b.mu.Unlock()
		return
	}
	b.unmounted = true
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	component.Unmount(b.inner)
}

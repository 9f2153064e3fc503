package progress

import (
	"slices"
	"sync"
)

type entry struct {
	state      State
	err        error
	seq        uint64
	loadedOnce bool
}

type subscription struct {
	actions []string
	fn      func()
}

// Tracker holds the progress of named actions. It is safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	actions map[string]entry
	seq     uint64

	// deliver serializes Set so subscribers observe updates in order.
	deliver sync.Mutex
	subMu   sync.Mutex
	subs    map[uint64]subscription
	nextSub uint64
}

// NewTracker returns an empty tracker; unknown actions report Idle.
func NewTracker() *Tracker {
	return &Tracker{
		actions: make(map[string]entry),
		subs:    make(map[uint64]subscription),
	}
}

// Set records the state of action and notifies subscribers watching it.
// err is kept only while the action is Failed. Subscribers run on the calling
// goroutine and must not call Set themselves.
func (t *Tracker) Set(action string, state State, err error) {
	if !state.Valid() {
		state = Idle
	}
	if state != Failed {
		err = nil
	}
	t.update(action, func(prev entry) entry {
		return entry{
			state:      state,
			err:        err,
			loadedOnce: prev.loadedOnce || state == Loaded,
		}
	})
}

// Start marks action as Loading.
func (t *Tracker) Start(action string) { t.Set(action, Loading, nil) }

// Succeed marks action as Loaded.
func (t *Tracker) Succeed(action string) { t.Set(action, Loaded, nil) }

// Fail marks action as Failed with err.
func (t *Tracker) Fail(action string, err error) { t.Set(action, Failed, err) }

// Reset returns action to Idle and forgets that it ever loaded.
func (t *Tracker) Reset(action string) {
	t.update(action, func(entry) entry {
		return entry{state: Idle}
	})
}

func (t *Tracker) update(action string, next func(prev entry) entry) {
	t.deliver.Lock()
	defer t.deliver.Unlock()

	t.mu.Lock()
	t.seq++
	e := next(t.actions[action])
	e.seq = t.seq
	t.actions[action] = e
	t.mu.Unlock()

	for _, fn := range t.subscribersFor(action) {
		fn()
	}
}

// State returns the raw state of a single action.
func (t *Tracker) State(action string) State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if e, ok := t.actions[action]; ok {
		return e.state
	}
	return Idle
}

// Snapshot combines the states of actions using strategy. The read is atomic
// across all actions.
func (t *Tracker) Snapshot(actions []string, strategy Strategy) Snapshot {
	t.mu.RLock()
	entries := make([]entry, 0, len(actions))
	for _, action := range actions {
		e, ok := t.actions[action]
		if !ok {
			e = entry{state: Idle}
		}
		entries = append(entries, e)
	}
	t.mu.RUnlock()
	return combine(strategy, entries)
}

// Subscribe registers fn to run after every update to one of actions. The
// returned cancel func is idempotent.
func (t *Tracker) Subscribe(actions []string, fn func()) (cancel func()) {
	t.subMu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = subscription{actions: slices.Clone(actions), fn: fn}
	t.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.subMu.Lock()
			delete(t.subs, id)
			t.subMu.Unlock()
		})
	}
}

func (t *Tracker) subscribersFor(action string) []func() {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	ids := make([]uint64, 0, len(t.subs))
	for id, sub := range t.subs {
		if slices.Contains(sub.actions, action) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]func(), 0, len(ids))
	for _, id := range ids {
		out = append(out, t.subs[id].fn)
	}
	return out
}

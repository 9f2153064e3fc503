package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"beacon/internal/component"
	"beacon/internal/config"
	"beacon/internal/logging"
	"beacon/internal/message"
	"beacon/internal/notifications"
	"beacon/internal/notify"
	"beacon/internal/progress"
	"beacon/internal/progressstore"
)

// Prop keys passed to every watcher component.
const (
	PropWatcher = "watcher"
	PropActions = "actions"
)

// RenderHook observes the sanitized props each watcher component renders.
type RenderHook func(watcher string, props component.Props)

// Option customizes a Manager.
type Option func(*Manager)

// WithSinks adds delivery sinks used by Run.
func WithSinks(sinks ...notifications.Sink) Option {
	return func(m *Manager) {
		m.sinks = append(m.sinks, sinks...)
	}
}

// WithRenderHook registers a hook invoked after every watcher render.
func WithRenderHook(hook RenderHook) Option {
	return func(m *Manager) {
		m.hook = hook
	}
}

type mounted struct {
	watcher config.Watcher
	comp    component.Component
}

// Manager coordinates the tracker, watcher components and journal replay.
type Manager struct {
	cfg     *config.Config
	store   *progressstore.Store
	logger  *slog.Logger
	base    *slog.Logger
	tracker *progress.Tracker
	queue   *notifications.Queue
	sinks   []notifications.Sink
	hook    RenderHook
	lock    *flock.Flock

	mu       sync.Mutex
	started  bool
	cursor   int64
	watchers []mounted
}

// New constructs a manager and validates every watcher definition.
func New(cfg *config.Config, store *progressstore.Store, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("watch manager requires config and store")
	}
	base := logger
	logger = logging.NewComponentLogger(base, "watch")

	m := &Manager{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		base:    base,
		tracker: progress.NewTracker(),
		queue: notifications.NewQueue(base,
			notifications.WithLimit(cfg.Notifications.QueueLimit),
			notifications.WithDeliveryBuffer(cfg.Notifications.DeliveryBuffer),
			notifications.WithSource("beacon"),
		),
		lock: flock.New(cfg.LockPath()),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, w := range cfg.Watchers {
		if !m.enabled(w.Kind) {
			logger.Info("watcher disabled by notification settings",
				logging.Watcher(w.Name),
				logging.String("kind", w.Kind))
			continue
		}
		decorate, err := m.decorator(w)
		if err != nil {
			return nil, fmt.Errorf("watcher %q: %w", w.Name, err)
		}
		m.watchers = append(m.watchers, mounted{watcher: w, comp: decorate(m.status(w))})
	}
	return m, nil
}

// Tracker exposes the in-memory progress tracker.
func (m *Manager) Tracker() *progress.Tracker {
	return m.tracker
}

// Queue exposes the notification queue fed by the watchers.
func (m *Manager) Queue() *notifications.Queue {
	return m.queue
}

// Started reports whether the watchers are mounted.
func (m *Manager) Started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Watchers returns the names of the active watchers.
func (m *Manager) Watchers() []string {
	names := make([]string, 0, len(m.watchers))
	for _, w := range m.watchers {
		names = append(names, w.watcher.Name)
	}
	return names
}

func (m *Manager) enabled(kind string) bool {
	switch kind {
	case config.KindFailure:
		return m.cfg.Notifications.Failure
	case config.KindSuccess:
		return m.cfg.Notifications.Success
	default:
		return false
	}
}

type failureData struct {
	Error   string
	Watcher string
}

func (m *Manager) decorator(w config.Watcher) (component.Decorator, error) {
	strategy, err := progress.ParseStrategy(w.Strategy)
	if err != nil {
		return nil, err
	}
	opts := progress.Options{Strategy: strategy}
	dispatcher := m.queue.From(w.Name)

	switch w.Kind {
	case config.KindFailure:
		msg, err := message.Template(w.Name, w.Message, func(cause error) any {
			return failureData{
				Error:   notify.DefaultFailureMessage().Resolve(cause),
				Watcher: w.Name,
			}
		})
		if err != nil {
			return nil, err
		}
		m.logConfigured(w, strategy, messageKind(msg))
		return notify.WithFailureNotification(m.tracker, dispatcher, w.Actions, msg, opts)
	case config.KindSuccess:
		msg, err := message.Template[component.Props](w.Name, w.Message, nil)
		if err != nil {
			return nil, err
		}
		m.logConfigured(w, strategy, messageKind(msg))
		return notify.WithSuccessNotification(m.tracker, dispatcher, w.Actions, msg, opts)
	default:
		return nil, fmt.Errorf("unsupported watcher kind %q", w.Kind)
	}
}

func (m *Manager) logConfigured(w config.Watcher, strategy progress.Strategy, msgKind string) {
	m.logger.Debug("watcher configured",
		logging.Watcher(w.Name),
		logging.String("kind", w.Kind),
		logging.String("actions", strings.Join(w.Actions, ",")),
		logging.String("strategy", string(strategy)),
		logging.String("message", msgKind))
}

func messageKind[T any](r message.Resolver[T]) string {
	switch {
	case !r.IsSet():
		return "default"
	case r.IsLiteral():
		return "literal"
	default:
		return "template"
	}
}

// status is the leaf component under each decorator stack. It only ever sees
// caller props.
func (m *Manager) status(w config.Watcher) component.Component {
	logger := m.logger.With(logging.Watcher(w.Name))
	return component.RenderFunc(func(props component.Props) {
		if logger.Enabled(context.Background(), slog.LevelDebug) {
			keys := make([]string, 0, len(props))
			for k := range props {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			logger.Debug("watcher rendered", logging.String("props", strings.Join(keys, ",")))
		}
		if m.hook != nil {
			m.hook(w.Name, props)
		}
	})
}

// Start seeds the tracker from the store and mounts every watcher. Progress
// that already exists when Start runs never produces a notification.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return errors.New("watch manager already started")
	}

	actions, cursor, err := m.store.ListWithCursor(ctx)
	if err != nil {
		return fmt.Errorf("seed from journal: %w", err)
	}
	for _, a := range actions {
		var actionErr error
		if a.Progress == progress.Failed {
			actionErr = errors.New(a.ErrorMessage)
		}
		m.tracker.Set(a.Name, a.Progress, actionErr)
	}

	for _, w := range m.watchers {
		w.comp.Render(component.Props{
			PropWatcher: w.watcher.Name,
			PropActions: slices.Clone(w.watcher.Actions),
		})
	}
	m.cursor = cursor
	m.started = true

	m.logger.Info("watch manager started",
		logging.Int("watchers", len(m.watchers)),
		logging.Int("actions", len(actions)),
		logging.Int64("cursor", cursor),
		logging.Duration("poll_interval", m.interval()),
		logging.String("database", m.store.Path()))
	return nil
}

// Poll replays journal events recorded since the last poll into the tracker
// and returns how many were applied.
func (m *Manager) Poll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return 0, errors.New("watch manager not started")
	}

	batch := m.cfg.Watch.BatchSize
	applied := 0
	for {
		events, err := m.store.EventsAfter(ctx, m.cursor, batch)
		if err != nil {
			return applied, fmt.Errorf("read journal: %w", err)
		}
		for _, ev := range events {
			m.logger.Debug("replaying action event",
				logging.Action(ev.Action),
				logging.Progress(ev.Progress.String()),
				logging.Int64("event_id", ev.ID))
			m.apply(ev)
			m.cursor = ev.ID
			applied++
		}
		if len(events) < batch || batch <= 0 {
			return applied, nil
		}
	}
}

// apply replays one journal event. Idle events mark an action that was reset
// or cleared, so earlier loads are forgotten and detectors re-arm.
func (m *Manager) apply(ev progressstore.Event) {
	if ev.Progress == progress.Idle {
		m.tracker.Reset(ev.Action)
		return
	}
	m.tracker.Set(ev.Action, ev.Progress, ev.Err())
}

// Stop unmounts every watcher component.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}
	for _, w := range m.watchers {
		component.Unmount(w.comp)
	}
	m.started = false
	m.logger.Info("watch manager stopped")
}

// Run acquires the watch lock, starts the manager and polls the journal until
// ctx is cancelled while delivering notifications to the configured sinks.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.cfg.EnsureDirectories(); err != nil {
		return err
	}
	ok, err := m.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another beacon watch instance is already running")
	}
	defer func() {
		if err := m.lock.Unlock(); err != nil {
			m.logger.Warn("failed to release watch lock", logging.Error(err))
		}
	}()

	if err := m.Start(ctx); err != nil {
		logging.ErrorWithContext(m.logger, "watch manager failed to start", "watch_start_failed",
			logging.Error(err),
			logging.Hint("check the state database path and permissions"))
		return err
	}
	defer m.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return notifications.Deliver(ctx, m.queue, m.base, m.sinks...)
	})
	g.Go(func() error {
		return m.pollLoop(ctx)
	})
	return g.Wait()
}

func (m *Manager) interval() time.Duration {
	interval := time.Duration(m.cfg.Watch.PollInterval) * time.Second
	if interval <= 0 {
		return time.Second
	}
	return interval
}

func (m *Manager) pollLoop(ctx context.Context) error {
	ticker := time.NewTicker(m.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.Poll(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logging.WarnWithContext(m.logger, "journal poll failed",
					"journal_poll_failed",
					logging.Error(err),
					logging.Hint("check the state database"),
					logging.Impact("transitions are delayed until the next poll"),
				)
			}
		}
	}
}

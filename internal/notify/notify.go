package notify

import (
	"errors"
	"fmt"
	"strings"

	"beacon/internal/component"
	"beacon/internal/message"
	"beacon/internal/notifications"
	"beacon/internal/progress"
)

// ErrMissingMessage is returned when a success notification has no message.
var ErrMissingMessage = errors.New("notify: success notification requires a message")

// Dispatcher receives notification payloads. Calls are fire-and-forget.
type Dispatcher interface {
	ShowError(notifications.Payload)
	ShowSuccess(notifications.Payload)
}

// DispatchFunc is the callable injected into props for a single kind.
type DispatchFunc func(notifications.Payload)

const unknownError = "unknown error"

// DefaultFailureMessage resolves to the error text itself.
func DefaultFailureMessage() message.Resolver[error] {
	return message.Computed(func(err error) string {
		if err == nil {
			return unknownError
		}
		if text := strings.TrimSpace(err.Error()); text != "" {
			return text
		}
		return unknownError
	})
}

// WithFailureNotification decorates a component so that every transition of
// actions into progress.Failed dispatches one error notification. msg
// receives only the error; an unset msg uses DefaultFailureMessage. opts is
// forwarded to the progress binding with internal prop keys.
func WithFailureNotification(
	tracker *progress.Tracker,
	dispatcher Dispatcher,
	actions []string,
	msg message.Resolver[error],
	opts progress.Options,
) (component.Decorator, error) {
	if err := checkSetup(tracker, dispatcher, actions); err != nil {
		return nil, err
	}
	msg = msg.Or(DefaultFailureMessage())
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("failure notification: %w", err)
	}

	opts.ProgressKey = component.ProgressKey
	opts.ErrorKey = component.ErrorKey

	return component.Compose(
		component.Provide(component.ShowErrorNotification, DispatchFunc(dispatcher.ShowError)),
		progress.Bind(tracker, actions, opts),
		func(inner component.Component) component.Component {
			return &notifier{
				detector:    NewDetector(progress.Failed),
				dispatchKey: component.ShowErrorNotification,
				internal:    []string{component.ProgressKey, component.ErrorKey, component.ShowErrorNotification},
				resolve: func(next progress.Snapshot, _ component.Props) string {
					return msg.Resolve(next.Error)
				},
				inner: inner,
			}
		},
	), nil
}

// WithSuccessNotification decorates a component so that every transition of
// actions into progress.Loaded dispatches one success notification. msg
// receives the complete next prop set and must be set.
func WithSuccessNotification(
	tracker *progress.Tracker,
	dispatcher Dispatcher,
	actions []string,
	msg message.Resolver[component.Props],
	opts progress.Options,
) (component.Decorator, error) {
	if err := checkSetup(tracker, dispatcher, actions); err != nil {
		return nil, err
	}
	if !msg.IsSet() {
		return nil, ErrMissingMessage
	}
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("success notification: %w", err)
	}

	opts.ProgressKey = component.ProgressKey
	opts.ErrorKey = ""

	return component.Compose(
		component.Provide(component.ShowSuccessNotification, DispatchFunc(dispatcher.ShowSuccess)),
		progress.Bind(tracker, actions, opts),
		func(inner component.Component) component.Component {
			return &notifier{
				detector:    NewDetector(progress.Loaded),
				dispatchKey: component.ShowSuccessNotification,
				internal:    []string{component.ProgressKey, component.ShowSuccessNotification},
				resolve: func(_ progress.Snapshot, props component.Props) string {
					return msg.Resolve(props)
				},
				inner: inner,
			}
		},
	), nil
}

func checkSetup(tracker *progress.Tracker, dispatcher Dispatcher, actions []string) error {
	if tracker == nil {
		return errors.New("notify: tracker is required")
	}
	if dispatcher == nil {
		return errors.New("notify: dispatcher is required")
	}
	if len(actions) == 0 {
		return errors.New("notify: at least one action is required")
	}
	return nil
}

// notifier runs the detector on every render and then forwards sanitized
// props unconditionally.
type notifier struct {
	detector    *Detector
	dispatchKey string
	internal    []string
	resolve     func(next progress.Snapshot, props component.Props) string
	inner       component.Component
}

func (n *notifier) Render(props component.Props) {
	next := snapshotFrom(props)
	if n.detector.Observe(next) {
		if dispatch, ok := props[n.dispatchKey].(DispatchFunc); ok && dispatch != nil {
			dispatch(notifications.Payload{Message: n.resolve(next, props)})
		}
	}
	n.inner.Render(component.Omit(props, n.internal...))
}

func (n *notifier) Unmount() {
	component.Unmount(n.inner)
}

func snapshotFrom(props component.Props) progress.Snapshot {
	state, _ := props[component.ProgressKey].(progress.State)
	if state == "" {
		state = progress.Idle
	}
	err, _ := props[component.ErrorKey].(error)
	return progress.Snapshot{Progress: state, Error: err}
}

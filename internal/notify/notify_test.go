package notify_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"beacon/internal/component"
	"beacon/internal/message"
	"beacon/internal/notifications"
	"beacon/internal/notify"
	"beacon/internal/progress"
)

type fakeDispatcher struct {
	errors    []notifications.Payload
	successes []notifications.Payload
}

func (f *fakeDispatcher) ShowError(p notifications.Payload) { f.errors = append(f.errors, p) }

func (f *fakeDispatcher) ShowSuccess(p notifications.Payload) { f.successes = append(f.successes, p) }

type recorder struct {
	renders []component.Props
}

func (r *recorder) Render(p component.Props) { r.renders = append(r.renders, p) }

func (r *recorder) last() component.Props { return r.renders[len(r.renders)-1] }

func mountFailure(t *testing.T, tracker *progress.Tracker, msg message.Resolver[error]) (*fakeDispatcher, *recorder, component.Component) {
	t.Helper()
	dispatcher := &fakeDispatcher{}
	decorate, err := notify.WithFailureNotification(tracker, dispatcher, []string{"save"}, msg, progress.Options{})
	if err != nil {
		t.Fatalf("WithFailureNotification: %v", err)
	}
	leaf := &recorder{}
	c := decorate(leaf)
	c.Render(component.Props{"title": "Editor"})
	return dispatcher, leaf, c
}

func TestFailureDefaultMessageIsErrorText(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Start("save")
	dispatcher, _, _ := mountFailure(t, tracker, message.Resolver[error]{})

	tracker.Fail("save", errors.New("timeout"))

	want := []notifications.Payload{{Message: "timeout"}}
	if diff := cmp.Diff(want, dispatcher.errors); diff != "" {
		t.Fatalf("unexpected dispatches (-want +got):\n%s", diff)
	}
}

func TestFailureMessageFunctionReceivesOnlyError(t *testing.T) {
	tracker := progress.NewTracker()
	boom := errors.New("disk full")
	var received error
	msg := message.Computed(func(err error) string {
		received = err
		return "Could not save: " + err.Error()
	})
	dispatcher, _, _ := mountFailure(t, tracker, msg)

	tracker.Start("save")
	tracker.Fail("save", boom)

	if received != boom {
		t.Fatalf("expected message function to receive the error, got %v", received)
	}
	if len(dispatcher.errors) != 1 || dispatcher.errors[0].Message != "Could not save: disk full" {
		t.Fatalf("unexpected dispatches %#v", dispatcher.errors)
	}
}

func TestFailureFiresOncePerEdgeAndRearms(t *testing.T) {
	tracker := progress.NewTracker()
	dispatcher, _, c := mountFailure(t, tracker, message.Literal[error]("failed"))

	tracker.Fail("save", errors.New("a"))
	c.Render(component.Props{"title": "Editor"})
	c.Render(component.Props{"title": "Editor v2"})
	tracker.Fail("save", errors.New("b"))
	if len(dispatcher.errors) != 1 {
		t.Fatalf("expected a single dispatch while failed, got %d", len(dispatcher.errors))
	}

	tracker.Start("save")
	tracker.Fail("save", errors.New("c"))
	if len(dispatcher.errors) != 2 {
		t.Fatalf("expected re-arm after leaving failed, got %d", len(dispatcher.errors))
	}
}

func TestFailureNoNotificationOnMountWhenAlreadyFailed(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Fail("save", errors.New("stale"))
	dispatcher, leaf, _ := mountFailure(t, tracker, message.Resolver[error]{})

	if len(dispatcher.errors) != 0 {
		t.Fatalf("expected no dispatch on mount, got %#v", dispatcher.errors)
	}
	if len(leaf.renders) != 1 {
		t.Fatalf("expected rendering to proceed on mount, got %d renders", len(leaf.renders))
	}
}

func TestFailureSanitizesPropsAndAlwaysRenders(t *testing.T) {
	tracker := progress.NewTracker()
	shared := &struct{ n int }{n: 1}
	dispatcher := &fakeDispatcher{}
	decorate, err := notify.WithFailureNotification(tracker, dispatcher, []string{"save"}, message.Resolver[error]{}, progress.Options{})
	if err != nil {
		t.Fatalf("WithFailureNotification: %v", err)
	}
	leaf := &recorder{}
	c := decorate(leaf)
	c.Render(component.Props{"data": shared})
	tracker.Start("save")
	tracker.Fail("save", errors.New("x"))

	if len(leaf.renders) != 3 {
		t.Fatalf("expected a render per update, got %d", len(leaf.renders))
	}
	for _, props := range leaf.renders {
		for key := range props {
			if component.IsInternal(key) {
				t.Fatalf("internal key %s leaked to wrapped component", key)
			}
		}
		if props["data"] != shared {
			t.Fatal("expected caller prop identity to be preserved")
		}
	}
}

func TestSuccessLiteralMessageDispatchesOnce(t *testing.T) {
	tracker := progress.NewTracker()
	dispatcher := &fakeDispatcher{}
	decorate, err := notify.WithSuccessNotification(tracker, dispatcher, []string{"save"}, message.Literal[component.Props]("Saved!"), progress.Options{})
	if err != nil {
		t.Fatalf("WithSuccessNotification: %v", err)
	}
	leaf := &recorder{}
	decorate(leaf).Render(component.Props{})

	tracker.Succeed("save")
	tracker.Succeed("save")

	want := []notifications.Payload{{Message: "Saved!"}}
	if diff := cmp.Diff(want, dispatcher.successes); diff != "" {
		t.Fatalf("unexpected dispatches (-want +got):\n%s", diff)
	}
	if len(dispatcher.errors) != 0 {
		t.Fatalf("success decorator must not dispatch errors: %#v", dispatcher.errors)
	}
	for key := range leaf.last() {
		if component.IsInternal(key) {
			t.Fatalf("internal key %s leaked", key)
		}
	}
}

func TestSuccessMessageFunctionReceivesFullProps(t *testing.T) {
	tracker := progress.NewTracker()
	dispatcher := &fakeDispatcher{}
	var received component.Props
	msg := message.Computed(func(p component.Props) string {
		received = p
		return "Saved " + p.String("name")
	})
	decorate, err := notify.WithSuccessNotification(tracker, dispatcher, []string{"save"}, msg, progress.Options{})
	if err != nil {
		t.Fatalf("WithSuccessNotification: %v", err)
	}
	decorate(&recorder{}).Render(component.Props{"name": "draft"})
	tracker.Start("save")
	tracker.Succeed("save")

	if received[component.ProgressKey] != progress.Loaded || received["name"] != "draft" {
		t.Fatalf("expected full next props, got %#v", received)
	}
	if _, ok := received[component.ShowSuccessNotification]; !ok {
		t.Fatal("expected dispatcher prop in the full prop set")
	}
	if dispatcher.successes[0].Message != "Saved draft" {
		t.Fatalf("unexpected message %q", dispatcher.successes[0].Message)
	}
}

func TestSuccessHoldingLoadedDoesNotDispatch(t *testing.T) {
	tracker := progress.NewTracker()
	tracker.Succeed("save")
	dispatcher := &fakeDispatcher{}
	decorate, err := notify.WithSuccessNotification(tracker, dispatcher, []string{"save"}, message.Literal[component.Props]("Saved!"), progress.Options{})
	if err != nil {
		t.Fatalf("WithSuccessNotification: %v", err)
	}
	c := decorate(&recorder{})
	c.Render(component.Props{})
	c.Render(component.Props{})
	tracker.Succeed("save")

	if len(dispatcher.successes) != 0 {
		t.Fatalf("expected no dispatch for loaded -> loaded, got %#v", dispatcher.successes)
	}
}

func TestSuccessRequiresMessage(t *testing.T) {
	_, err := notify.WithSuccessNotification(progress.NewTracker(), &fakeDispatcher{}, []string{"save"}, message.Resolver[component.Props]{}, progress.Options{})
	if !errors.Is(err, notify.ErrMissingMessage) {
		t.Fatalf("expected ErrMissingMessage, got %v", err)
	}
}

func TestSetupValidation(t *testing.T) {
	tracker := progress.NewTracker()
	if _, err := notify.WithFailureNotification(nil, &fakeDispatcher{}, []string{"a"}, message.Resolver[error]{}, progress.Options{}); err == nil {
		t.Fatal("expected error without tracker")
	}
	if _, err := notify.WithFailureNotification(tracker, nil, []string{"a"}, message.Resolver[error]{}, progress.Options{}); err == nil {
		t.Fatal("expected error without dispatcher")
	}
	if _, err := notify.WithFailureNotification(tracker, &fakeDispatcher{}, nil, message.Resolver[error]{}, progress.Options{}); err == nil {
		t.Fatal("expected error without actions")
	}
	_, err := notify.WithFailureNotification(tracker, &fakeDispatcher{}, []string{"a"}, message.Computed[error](nil), progress.Options{})
	if !errors.Is(err, message.ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestStackedDecoratorsShareTracker(t *testing.T) {
	tracker := progress.NewTracker()
	dispatcher := &fakeDispatcher{}
	failure, err := notify.WithFailureNotification(tracker, dispatcher, []string{"sync"}, message.Resolver[error]{}, progress.Options{})
	if err != nil {
		t.Fatal(err)
	}
	success, err := notify.WithSuccessNotification(tracker, dispatcher, []string{"sync"}, message.Literal[component.Props]("Synced"), progress.Options{})
	if err != nil {
		t.Fatal(err)
	}
	leaf := &recorder{}
	component.Compose(success, failure)(leaf).Render(component.Props{"id": 1})

	tracker.Start("sync")
	tracker.Fail("sync", errors.New("offline"))
	tracker.Start("sync")
	tracker.Succeed("sync")

	if len(dispatcher.errors) != 1 || dispatcher.errors[0].Message != "offline" {
		t.Fatalf("unexpected error dispatches %#v", dispatcher.errors)
	}
	if len(dispatcher.successes) != 1 {
		t.Fatalf("unexpected success dispatches %#v", dispatcher.successes)
	}
	if diff := cmp.Diff(component.Props{"id": 1}, leaf.last()); diff != "" {
		t.Fatalf("unexpected leaf props (-want +got):\n%s", diff)
	}
}

func TestDefaultFailureMessageHandlesNil(t *testing.T) {
	if got := notify.DefaultFailureMessage().Resolve(nil); got != "unknown error" {
		t.Fatalf("unexpected default for nil error %q", got)
	}
}

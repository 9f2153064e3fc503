package progress_test

import (
	"errors"
	"testing"

	"beacon/internal/component"
	"beacon/internal/progress"
)

type recorder struct {
	renders []component.Props
	closed  bool
}

func (r *recorder) Render(p component.Props) { r.renders = append(r.renders, p) }

func (r *recorder) Unmount() { r.closed = true }

func (r *recorder) last() component.Props { return r.renders[len(r.renders)-1] }

func TestBindInjectsSnapshotAndRerendersOnChange(t *testing.T) {
	tracker := progress.NewTracker()
	leaf := &recorder{}
	wrapped := progress.Bind(tracker, []string{"fetch"}, progress.Options{
		ProgressKey: "__p__",
		ErrorKey:    "__e__",
	})(leaf)

	wrapped.Render(component.Props{"title": "Inbox"})
	if got := leaf.last()["__p__"]; got != progress.Idle {
		t.Fatalf("expected idle on first render, got %v", got)
	}

	boom := errors.New("offline")
	tracker.Fail("fetch", boom)

	if len(leaf.renders) != 2 {
		t.Fatalf("expected re-render on tracker change, got %d renders", len(leaf.renders))
	}
	last := leaf.last()
	if last["__p__"] != progress.Failed || last["__e__"] != boom || last["title"] != "Inbox" {
		t.Fatalf("unexpected props after failure: %#v", last)
	}
}

func TestBindDoesNotRenderBeforeFirstCallerRender(t *testing.T) {
	tracker := progress.NewTracker()
	leaf := &recorder{}
	progress.WithProgress(tracker, []string{"fetch"}, progress.Options{})(leaf)

	tracker.Start("fetch")
	if len(leaf.renders) != 0 {
		t.Fatalf("expected no renders before mount, got %d", len(leaf.renders))
	}
}

func TestWithProgressAndWithErrorUseDefaultKeys(t *testing.T) {
	tracker := progress.NewTracker()
	boom := errors.New("nope")
	tracker.Fail("fetch", boom)

	leaf := &recorder{}
	component.Compose(
		progress.WithError(tracker, []string{"fetch"}, progress.Options{}),
		progress.WithProgress(tracker, []string{"fetch"}, progress.Options{ErrorKey: "ignored"}),
	)(leaf).Render(component.Props{})

	last := leaf.last()
	if last["progress"] != progress.Failed || last["error"] != boom {
		t.Fatalf("unexpected default keys: %#v", last)
	}
	if _, ok := last["ignored"]; ok {
		t.Fatal("WithProgress must not inject an error key")
	}
}

func TestBindUnmountStopsUpdates(t *testing.T) {
	tracker := progress.NewTracker()
	leaf := &recorder{}
	wrapped := progress.WithProgress(tracker, []string{"fetch"}, progress.Options{})(leaf)
	wrapped.Render(component.Props{})

	component.Unmount(wrapped)
	tracker.Start("fetch")
	wrapped.Render(component.Props{})

	if len(leaf.renders) != 1 {
		t.Fatalf("expected a single render before unmount, got %d", len(leaf.renders))
	}
	if !leaf.closed {
		t.Fatal("expected unmount to propagate")
	}
}

package component_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"beacon/internal/component"
)

type payload struct{ name string }

func TestOmitStripsInternalKeysAndKeepsIdentity(t *testing.T) {
	shared := &payload{name: "wallet"}
	props := component.Props{
		"title":                         "Accounts",
		"data":                          shared,
		component.ProgressKey:           "loading",
		component.ErrorKey:              "boom",
		component.ShowErrorNotification: func() {},
	}

	out := component.Omit(props, component.ProgressKey, component.ErrorKey, component.ShowErrorNotification)

	for _, key := range []string{component.ProgressKey, component.ErrorKey, component.ShowErrorNotification} {
		if _, ok := out[key]; ok {
			t.Fatalf("expected %s to be omitted", key)
		}
	}
	if got, ok := out["data"].(*payload); !ok || got != shared {
		t.Fatalf("expected pointer identity to be preserved, got %#v", out["data"])
	}
	if len(props) != 5 {
		t.Fatalf("expected source props to be untouched, got %d keys", len(props))
	}
	if diff := cmp.Diff(component.Props{"title": "Accounts", "data": shared}, out, cmp.AllowUnexported(payload{})); diff != "" {
		t.Fatalf("unexpected props (-want +got):\n%s", diff)
	}
}

func TestComposeAppliesFirstDecoratorOutermost(t *testing.T) {
	var order []string
	tag := func(name string) component.Decorator {
		return func(inner component.Component) component.Component {
			return component.RenderFunc(func(p component.Props) {
				order = append(order, name)
				inner.Render(p)
			})
		}
	}
	leaf := component.RenderFunc(func(component.Props) { order = append(order, "leaf") })

	component.Compose(tag("outer"), nil, tag("inner"))(leaf).Render(component.Props{})

	if diff := cmp.Diff([]string{"outer", "inner", "leaf"}, order); diff != "" {
		t.Fatalf("unexpected render order (-want +got):\n%s", diff)
	}
}

func TestProvideInjectsWithoutMutatingCallerProps(t *testing.T) {
	var seen component.Props
	leaf := component.RenderFunc(func(p component.Props) { seen = p })
	caller := component.Props{"id": 7}

	component.Provide("__dispatch__", "fn")(leaf).Render(caller)

	if seen["__dispatch__"] != "fn" || seen["id"] != 7 {
		t.Fatalf("unexpected injected props: %#v", seen)
	}
	if _, ok := caller["__dispatch__"]; ok {
		t.Fatal("caller props were mutated")
	}
}

func TestIsInternal(t *testing.T) {
	cases := map[string]bool{
		component.ProgressKey: true,
		"__x__":               true,
		"____":                false,
		"title":               false,
		"__leading":           false,
	}
	for key, want := range cases {
		if got := component.IsInternal(key); got != want {
			t.Fatalf("IsInternal(%q) = %v, want %v", key, got, want)
		}
	}
}

type closer struct {
	component.RenderFunc
	closed bool
}

func (c *closer) Unmount() { c.closed = true }

func TestUnmountPropagatesThroughProvide(t *testing.T) {
	leaf := &closer{RenderFunc: func(component.Props) {}}
	wrapped := component.Provide("k", 1)(leaf)
	component.Unmount(wrapped)
	if !leaf.closed {
		t.Fatal("expected unmount to reach the wrapped component")
	}
}

func TestPropsStringAndClone(t *testing.T) {
	props := component.Props{"name": "draft", "count": 3}
	if got := props.String("name"); got != "draft" {
		t.Fatalf("expected draft, got %q", got)
	}
	if got := props.String("count"); got != "" {
		t.Fatalf("expected empty string for non-string value, got %q", got)
	}
	if got := props.String("missing"); got != "" {
		t.Fatalf("expected empty string for missing key, got %q", got)
	}

	clone := props.Clone()
	clone["name"] = "final"
	if props.String("name") != "draft" {
		t.Fatal("expected Clone to leave the original untouched")
	}
}

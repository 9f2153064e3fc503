package component

// Props is the prop set handed to a component on each render.
type Props map[string]any

// Component renders a prop set. Render is never called concurrently for the
// same instance by the decorators in this module.
type Component interface {
	Render(props Props)
}

// RenderFunc adapts a plain function to the Component interface.
type RenderFunc func(props Props)

// Render calls f(props).
func (f RenderFunc) Render(props Props) {
	f(props)
}

// Unmounter is implemented by components that hold subscriptions or other
// per-instance resources.
type Unmounter interface {
	Unmount()
}

// Unmount releases c when it implements Unmounter.
func Unmount(c Component) {
	if u, ok := c.(Unmounter); ok {
		u.Unmount()
	}
}

// Decorator wraps a component with additional behaviour.
type Decorator func(Component) Component

// Compose chains decorators so that the first one is the outermost wrapper.
func Compose(decorators ...Decorator) Decorator {
	return func(c Component) Component {
		for i := len(decorators) - 1; i >= 0; i-- {
			if decorators[i] == nil {
				continue
			}
			c = decorators[i](c)
		}
		return c
	}
}

// Provide injects a fixed value under key into every render.
func Provide(key string, value any) Decorator {
	return func(inner Component) Component {
		return &provider{inner: inner, key: key, value: value}
	}
}

type provider struct {
	inner Component
	key   string
	value any
}

func (p *provider) Render(props Props) {
	next := props.Clone()
	next[p.key] = p.value
	p.inner.Render(next)
}

func (p *provider) Unmount() {
	Unmount(p.inner)
}

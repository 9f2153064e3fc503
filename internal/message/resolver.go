// Package message resolves notification text from either a fixed string or a
// function of the triggering context.
package message

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

var (
	// ErrInvalidMessage reports a computed resolver without a function.
	ErrInvalidMessage = errors.New("message: computed resolver has no function")
	// ErrUnset reports a resolver that was never configured.
	ErrUnset = errors.New("message: not configured")
)

type kind uint8

const (
	unset kind = iota
	literal
	computed
)

// Resolver is either a literal string or a function of T. The zero value is
// unset.
type Resolver[T any] struct {
	kind kind
	text string
	fn   func(T) string
}

// Literal returns a resolver that always yields text.
func Literal[T any](text string) Resolver[T] {
	return Resolver[T]{kind: literal, text: text}
}

// Computed returns a resolver that calls fn with the triggering context.
func Computed[T any](fn func(T) string) Resolver[T] {
	return Resolver[T]{kind: computed, fn: fn}
}

// IsSet reports whether the resolver was configured.
func (r Resolver[T]) IsSet() bool {
	return r.kind != unset
}

// IsLiteral reports whether the resolver ignores its argument.
func (r Resolver[T]) IsLiteral() bool {
	return r.kind == literal
}

// Validate returns ErrUnset for the zero value and ErrInvalidMessage for a
// computed resolver without a function.
func (r Resolver[T]) Validate() error {
	switch r.kind {
	case unset:
		return ErrUnset
	case computed:
		if r.fn == nil {
			return ErrInvalidMessage
		}
	}
	return nil
}

// Resolve produces the message for ctx. Unset resolvers yield "".
func (r Resolver[T]) Resolve(ctx T) string {
	switch r.kind {
	case literal:
		return r.text
	case computed:
		if r.fn == nil {
			return ""
		}
		return r.fn(ctx)
	default:
		return ""
	}
}

// Or returns r when it is set and fallback otherwise.
func (r Resolver[T]) Or(fallback Resolver[T]) Resolver[T] {
	if r.IsSet() {
		return r
	}
	return fallback
}

// Template builds a resolver from text/template source. Source without
// template actions becomes a Literal; empty source yields an unset resolver.
// data maps the triggering context to the template's dot value; nil uses the
// context itself.
func Template[T any](name, source string, data func(T) any) (Resolver[T], error) {
	if strings.TrimSpace(source) == "" {
		return Resolver[T]{}, nil
	}
	if !strings.Contains(source, "{{") {
		return Literal[T](source), nil
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(source)
	if err != nil {
		return Resolver[T]{}, fmt.Errorf("parse message template %q: %w", name, err)
	}
	return Computed(func(ctx T) string {
		var dot any = ctx
		if data != nil {
			dot = data(ctx)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, dot); err != nil {
			return source
		}
		return buf.String()
	}), nil
}

package component

import "strings"

// Internal prop keys used by the notification decorators.
const (
	ProgressKey             = "__progress__"
	ErrorKey                = "__error__"
	ShowErrorNotification   = "__showErrorNotification__"
	ShowSuccessNotification = "__showSuccessNotification__"
)

// Omit returns a copy of props without keys. Remaining values keep their
// identity; nothing is deep-copied.
func Omit(props Props, keys ...string) Props {
	out := make(Props, len(props))
	for k, v := range props {
		out[k] = v
	}
	for _, key := range keys {
		delete(out, key)
	}
	return out
}

// IsInternal reports whether key has the reserved __name__ shape.
func IsInternal(key string) bool {
	return len(key) > 4 && strings.HasPrefix(key, "__") && strings.HasSuffix(key, "__")
}

// Clone returns a shallow copy of props.
func (p Props) Clone() Props {
	return Omit(p)
}

// String returns the string stored under key, or "" when it is absent or
// holds another type.
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

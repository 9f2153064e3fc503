package progress

import (
	"errors"
	"fmt"
	"strings"
)

// State is the lifecycle position of a tracked action.
type State string

const (
	Idle    State = "idle"
	Loading State = "loading"
	Loaded  State = "loaded"
	Failed  State = "failed"
)

// ErrUnknownState is returned when parsing a value outside the lifecycle set.
var ErrUnknownState = errors.New("unknown progress state")

var allStates = []State{Idle, Loading, Loaded, Failed}

// States returns the lifecycle values in order.
func States() []State {
	out := make([]State, len(allStates))
	copy(out, allStates)
	return out
}

// Valid reports whether s is one of the lifecycle values.
func (s State) Valid() bool {
	for _, candidate := range allStates {
		if s == candidate {
			return true
		}
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// ParseState converts user input into a State. "initial" and "" map to Idle.
func ParseState(value string) (State, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", "initial":
		return Idle, nil
	case "success", "succeeded", "done":
		return Loaded, nil
	case "error", "failure":
		return Failed, nil
	}
	state := State(normalized)
	if !state.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, value)
	}
	return state, nil
}

// Snapshot captures the combined progress of a set of actions at one render.
type Snapshot struct {
	Progress State
	Error    error
}

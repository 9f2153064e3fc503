package progress

import (
	"fmt"
	"strings"
)

// Strategy combines the states of several actions into one Snapshot.
type Strategy string

const (
	// Pure reports failed if any action failed, loading if any is loading,
	// loaded when all loaded, and idle otherwise.
	Pure Strategy = "pure"
	// AlreadyLoaded behaves like Pure but keeps reporting loaded while
	// actions that have all loaded before are reloading.
	AlreadyLoaded Strategy = "already_loaded"
	// Recent reports the most recently updated action.
	Recent Strategy = "recent"
)

// ParseStrategy converts a config value into a Strategy. Empty means Pure.
func ParseStrategy(value string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(value))); s {
	case "":
		return Pure, nil
	case Pure, AlreadyLoaded, Recent:
		return s, nil
	default:
		return "", fmt.Errorf("unknown progress strategy %q", value)
	}
}

func combine(strategy Strategy, entries []entry) Snapshot {
	if len(entries) == 0 {
		return Snapshot{Progress: Idle}
	}
	switch strategy {
	case Recent:
		latest := entries[0]
		for _, e := range entries[1:] {
			if e.seq > latest.seq {
				latest = e
			}
		}
		return Snapshot{Progress: latest.state, Error: latest.err}
	case AlreadyLoaded:
		snap := combinePure(entries)
		if snap.Progress == Loading && allLoadedOnce(entries) {
			snap.Progress = Loaded
		}
		return snap
	default:
		return combinePure(entries)
	}
}

func combinePure(entries []entry) Snapshot {
	loading := false
	loaded := 0
	for _, e := range entries {
		switch e.state {
		case Failed:
			return Snapshot{Progress: Failed, Error: e.err}
		case Loading:
			loading = true
		case Loaded:
			loaded++
		}
	}
	switch {
	case loading:
		return Snapshot{Progress: Loading}
	case loaded == len(entries):
		return Snapshot{Progress: Loaded}
	default:
		return Snapshot{Progress: Idle}
	}
}

func allLoadedOnce(entries []entry) bool {
	for _, e := range entries {
		if !e.loadedOnce {
			return false
		}
	}
	return true
}

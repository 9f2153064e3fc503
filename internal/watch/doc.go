// Package watch turns persisted action transitions into notifications.
//
// A Manager builds one decorated component per configured watcher, seeds an
// in-memory progress tracker from the SQLite store, and then replays the
// action journal in order so every loading/failed/loaded edge recorded
// between two polls is observed exactly once. Run holds a flock on the state
// directory so only one watch loop consumes the journal at a time.
package watch

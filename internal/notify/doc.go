// Package notify turns progress transitions into user notifications.
//
// A Detector watches consecutive snapshots of a tracked operation and reports
// an edge exactly once each time progress enters its target state from any
// other state. The first snapshot an instance sees never counts, so a
// component mounted while an operation is already failed stays quiet until
// the operation fails again.
//
// WithFailureNotification and WithSuccessNotification build component
// decorators that inject dispatch and progress, run the detector on every
// render, dispatch one payload per edge, and always forward the caller's
// props without the internal keys.
package notify

// Package progress tracks the lifecycle of asynchronous actions and injects
// it into components.
//
// A Tracker stores the state of every named action and notifies subscribers
// synchronously, in update order, whenever one of their actions changes.
// Strategies combine several actions into a single Snapshot. Bind turns a
// tracker subscription into a component decorator that re-renders the wrapped
// component with the current progress (and optionally the error) under
// caller-chosen prop keys.
package progress

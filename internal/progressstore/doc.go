// Package progressstore persists tracked action progress in SQLite.
//
// Every recorded transition updates the action's current row and appends an
// event to a journal, both in one transaction. The watch loop replays the
// journal in order, so transitions that happen between two polls (for example
// failed → loading → failed) still reach the detectors as separate edges.
package progressstore

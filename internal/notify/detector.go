package notify

import "beacon/internal/progress"

// Entered reports whether progress moved into target between prev and next.
func Entered(target, prev, next progress.State) bool {
	return prev != target && next == target
}

// Detector fires once per transition into its target state.
// It is not safe for concurrent use.
type Detector struct {
	target  progress.State
	prev    progress.Snapshot
	hasPrev bool
}

// NewDetector returns a detector for transitions into target.
func NewDetector(target progress.State) *Detector {
	return &Detector{target: target}
}

// Observe records next and reports whether it completes an edge into the
// target state. The first observation only primes the detector.
func (d *Detector) Observe(next progress.Snapshot) bool {
	fired := d.hasPrev && Entered(d.target, d.prev.Progress, next.Progress)
	d.prev = next
	d.hasPrev = true
	return fired
}

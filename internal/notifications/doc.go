// Package notifications queues user-facing notifications and delivers them
// through pluggable sinks.
//
// Queue is the dispatch target for the transition detectors: ShowError and
// ShowSuccess enqueue synchronously and never block on delivery. Deliver
// drains the queue into sinks such as ntfy or the structured log, logging
// sink failures instead of reporting them back to the dispatcher.
//
// Extend this package if you need alternative transports; callers depend only
// on the Sink interface.
package notifications

// Package telemetry implements the four emission points of §6.5 as
// Prometheus metrics: intent.received, render.complete, patch.sent, and
// error. Measurements and metadata are opaque to the transport — this
// package only decides how they're exposed, not what they mean.
package telemetry

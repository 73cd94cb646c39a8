package telemetry

import (
	"log/slog"
	"time"
)

// Telemetry records the four emission points of §6.5: each call both
// updates a Prometheus metric and writes a structured log line, so a
// single call site serves both a dashboard and a log search.
type Telemetry struct {
	Logger *slog.Logger
}

// New returns a Telemetry that logs through logger. A nil logger falls
// back to slog.Default().
func New(logger *slog.Logger) *Telemetry {
	return &Telemetry{Logger: logger}
}

func (t *Telemetry) log() *slog.Logger {
	if t != nil && t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

// IntentReceived records an inbound intent, identified by the screen
// currently active and the intent's name, plus its normalized ack.
func (t *Telemetry) IntentReceived(sid, rev any, screenLabel, name string, ack *int64) {
	intentsReceivedTotal.WithLabelValues(screenLabel, name).Inc()
	t.log().Debug("intent.received", "sid", sid, "rev", rev, "screen", screenLabel, "name", name, "ack", ack)
}

// RenderComplete records a render cycle's duration and outcome.
func (t *Telemetry) RenderComplete(duration time.Duration, status string) {
	renderDuration.WithLabelValues(status).Observe(duration.Seconds())
	t.log().Debug("render.complete", "duration", duration, "status", status)
}

// PatchSent records an outbound patch's op count and ack.
func (t *Telemetry) PatchSent(screenLabel string, opCount int, ack *int64) {
	patchOpsSent.WithLabelValues(screenLabel).Observe(float64(opCount))
	t.log().Debug("patch.sent", "screen", screenLabel, "op_count", opCount, "ack", ack)
}

// Error records a session-level fault: kind (e.g. "render_exception"), the
// fault's message, and the screen it occurred on.
func (t *Telemetry) Error(kind, message, screenLabel string) {
	errorsTotal.WithLabelValues(kind).Inc()
	t.log().Warn("error", "kind", kind, "message", message, "screen", screenLabel)
}

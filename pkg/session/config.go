package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/isaiahdw/projection/pkg/batcher"
	"github.com/isaiahdw/projection/pkg/bridge"
	"github.com/isaiahdw/projection/pkg/router"
	"github.com/isaiahdw/projection/pkg/screen"
	"github.com/isaiahdw/projection/pkg/subscription"
	"github.com/isaiahdw/projection/pkg/telemetry"
)

// Registry maps a route's ScreenModule identifier to the screen.Module
// instance that implements it, for router mode.
type Registry map[string]screen.Module

// Default values applied by Config.WithDefaults, mirroring vango's
// pkg/server/config.go DefaultSessionConfig() convention of a documented
// constant per tunable field.
const (
	// DefaultBatchWindowMs is the coalescing window WithDefaults applies
	// when BatchWindowMs is left unset, matching cmd/projection-demo's own
	// --batch-window-ms default.
	DefaultBatchWindowMs = 100

	// DefaultMaxPendingOps is the pending-op ceiling WithDefaults applies
	// when MaxPendingOps is left unset.
	DefaultMaxPendingOps = 500
)

// Config constructs a Session. Exactly one of Table or ScreenModule must
// be set (router mode vs single-screen mode, §4.1).
type Config struct {
	// Router mode.
	Table         *router.Table
	Screens       Registry
	InitialRoute  string
	InitialParams map[string]string

	// Single-screen mode.
	ScreenModule screen.Module

	// AppTitle is the app.title surface of the router-mode VM (§4.3).
	// Default: "".
	AppTitle string

	// Bridge dispatches outbound envelopes to the renderer.
	// Default: nil (outbound envelopes are silently dropped; useful for
	// tests that only inspect session state).
	Bridge bridge.Bridge

	// SubscriptionHook is invoked on every subscribe/unsubscribe delta
	// (§4.7, §6.4).
	// Default: nil (subscription changes are tracked but have no side
	// effect).
	SubscriptionHook subscription.Hook

	// BatchWindowMs is the patch batcher's coalescing window (§4.8). 0
	// means flush immediately on every enqueue rather than wait.
	// Default: DefaultBatchWindowMs, via WithDefaults.
	BatchWindowMs int

	// MaxPendingOps is the pending-op ceiling that forces an immediate
	// flush regardless of the batch window (§4.8).
	// Default: DefaultMaxPendingOps, via WithDefaults.
	MaxPendingOps int

	// TickPeriod schedules a recurring handle_info("tick", ...) dispatch
	// when positive (§4.9 "Tick").
	// Default: 0 (disabled).
	TickPeriod time.Duration

	// Scheduler abstracts the batcher/tick timer for deterministic tests.
	// Default: batcher.RealScheduler{}.
	Scheduler batcher.Scheduler

	// Telemetry records the four emission points of §6.5.
	// Default: nil (telemetry disabled).
	Telemetry *telemetry.Telemetry

	// Logger receives all session log output.
	// Default: slog.Default().
	Logger *slog.Logger
}

// WithDefaults returns a copy of c with documented defaults applied to any
// field left at its zero value, following vango's pkg/server/config.go
// DefaultSessionConfig() constructor-helper convention. Like that
// convention, it can't distinguish "left unset" from "explicitly zero":
// BatchWindowMs: 0 is itself a meaningful spec value (§4.8, "flush
// immediately"), so a caller that wants that exact behavior must call New
// directly with BatchWindowMs: 0 rather than going through WithDefaults.
func (c Config) WithDefaults() Config {
	if c.BatchWindowMs == 0 {
		c.BatchWindowMs = DefaultBatchWindowMs
	}
	if c.MaxPendingOps == 0 {
		c.MaxPendingOps = DefaultMaxPendingOps
	}
	if c.Scheduler == nil {
		c.Scheduler = batcher.RealScheduler{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// newCorrelationID produces an internal identifier used in log lines
// before the renderer-chosen sid is adopted on the first ready (§4.9).
// It never appears on the wire.
func newCorrelationID() string {
	return uuid.NewString()
}

package screen

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/isaiahdw/projection/pkg/vm"
)

// ErrMountFailed is returned by Mount when a Mounter hook returns an error
// or a nil state — a hard error that aborts session start (§4.5).
var ErrMountFailed = errors.New("screen: mount failed")

// Dispatcher invokes a screen module's lifecycle hooks with the graceful
// degradation and fault isolation described in §4.5: an absent hook uses
// the documented default, and a faulting hook (panic, or a malformed
// result) is caught, logged, and treated as a no-op rather than crashing
// the session.
type Dispatcher struct {
	Logger *slog.Logger
}

// NewDispatcher returns a Dispatcher that logs through logger. A nil
// logger falls back to slog.Default().
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{Logger: logger}
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Mount runs the screen's Mounter hook, if any, seeding its initial state
// from Schema() defaults when absent. A Mounter that errors or returns nil
// is a hard failure per §4.5.
func (d *Dispatcher) Mount(mod Module, params map[string]string, screenSession string) (_ *State, err error) {
	initial := New(mod.Schema())
	m, ok := mod.(Mounter)
	if !ok {
		return initial, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: mount panicked: %v", ErrMountFailed, r)
		}
	}()
	st, mErr := m.Mount(params, screenSession, initial)
	if mErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMountFailed, mErr)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: Mount returned a nil state", ErrMountFailed)
	}
	return st, nil
}

// HandleEvent dispatches name/payload to the screen's EventHandler, if any.
// A panic or a nil result is logged as a warning and the prior state is
// kept — the intent is effectively a no-op, and the session never crashes
// on a screen fault here.
func (d *Dispatcher) HandleEvent(mod Module, name string, payload map[string]any, state *State) *State {
	eh, ok := mod.(EventHandler)
	if !ok {
		return state
	}
	return d.safeCall("handle_event", name, state, func() *State {
		return eh.HandleEvent(name, payload, state)
	})
}

// HandleParams dispatches params to the screen's ParamsHandler. handled
// reports whether the screen implements ParamsHandler; when false, the
// caller must re-mount the screen instead (§9, open question b).
func (d *Dispatcher) HandleParams(mod Module, params map[string]string, state *State) (next *State, handled bool) {
	ph, ok := mod.(ParamsHandler)
	if !ok {
		return state, false
	}
	return d.safeCall("handle_params", "", state, func() *State {
		return ph.HandleParams(params, state)
	}), true
}

// HandleInfo dispatches message to the screen's InfoHandler, if any.
func (d *Dispatcher) HandleInfo(mod Module, message any, state *State) *State {
	ih, ok := mod.(InfoHandler)
	if !ok {
		return state
	}
	return d.safeCall("handle_info", "", state, func() *State {
		return ih.HandleInfo(message, state)
	})
}

func (d *Dispatcher) safeCall(hook, name string, state *State, fn func() *State) (result *State) {
	result = state
	defer func() {
		if r := recover(); r != nil {
			d.logger().Warn("screen hook panicked, state preserved", "hook", hook, "name", name, "panic", r)
			result = state
		}
	}()
	next := fn()
	if next == nil {
		d.logger().Warn("screen hook returned nil state, state preserved", "hook", hook, "name", name)
		return state
	}
	return next
}

// Subscriptions returns the topics the screen declares for params and
// screenSession, or nil if the screen has no Subscriber. A panic is caught
// and logged, yielding an empty set for this call.
func (d *Dispatcher) Subscriptions(mod Module, params map[string]string, screenSession string) (topics []string) {
	s, ok := mod.(Subscriber)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger().Warn("subscriptions hook panicked", "panic", r)
			topics = nil
		}
	}()
	return s.Subscriptions(params, screenSession)
}

// Render produces the screen's VM subtree from assigns. A screen without a
// Renderer gets the default projection: assigns restricted to Schema()
// keys, falling back to the schema default for any key assigns doesn't
// set. A Renderer that panics, errors, or returns a nil map is reported as
// a render fault so the caller can fall back to the error VM (§4.9).
func (d *Dispatcher) Render(mod Module, assigns vm.Map) (out vm.Map, err error) {
	r, ok := mod.(Renderer)
	if !ok {
		return projectAssigns(assigns, mod.Schema()), nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("render panicked: %v", rec)
		}
	}()
	m, rErr := r.Render(assigns)
	if rErr != nil {
		return nil, rErr
	}
	if m == nil {
		return nil, errors.New("render returned a nil map")
	}
	return m, nil
}

func projectAssigns(assigns, schema vm.Map) vm.Map {
	out := make(vm.Map, len(schema))
	for k, def := range schema {
		if v, ok := assigns[k]; ok {
			out[k] = v
		} else {
			out[k] = def
		}
	}
	return out
}

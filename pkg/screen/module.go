package screen

import "github.com/isaiahdw/projection/pkg/vm"

// Module is the one capability every screen must provide: its public VM
// surface, as a field-to-default-value mapping used to seed mount state.
type Module interface {
	Schema() vm.Map
}

// Mounter is implemented by screens that need to run setup logic (fetch
// data, seed derived assigns) when the screen becomes active. Must return a
// non-nil State or the dispatcher treats it as a hard mount failure (§4.5).
type Mounter interface {
	Mount(params map[string]string, screenSession string, initial *State) (*State, error)
}

// EventHandler is implemented by screens that respond to renderer intents
// other than the reserved route intents.
type EventHandler interface {
	HandleEvent(name string, payload map[string]any, state *State) *State
}

// ParamsHandler is implemented by screens that want to react to an
// in-place `ui.route.patch` without a full re-mount. If a screen doesn't
// implement this, Dispatcher.HandleParams reports handled=false and the
// session re-mounts it instead (§9, open question b).
type ParamsHandler interface {
	HandleParams(params map[string]string, state *State) *State
}

// InfoHandler is implemented by screens that react to session-internal
// messages, such as a tick timer fire.
type InfoHandler interface {
	HandleInfo(message any, state *State) *State
}

// Subscriber is implemented by screens that need pub/sub topics kept in
// sync with their lifecycle.
type Subscriber interface {
	Subscriptions(params map[string]string, screenSession string) []string
}

// Renderer is implemented by screens whose VM surface isn't just their
// assigns verbatim. Must return a non-nil map or the dispatcher treats the
// render as faulted (§4.5, §4.9 error VM).
type Renderer interface {
	Render(assigns vm.Map) (vm.Map, error)
}

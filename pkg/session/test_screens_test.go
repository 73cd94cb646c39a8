package session

import (
	"errors"

	"github.com/isaiahdw/projection/pkg/screen"
	"github.com/isaiahdw/projection/pkg/vm"
)

// clockScreen is a minimal screen with one scalar field, used to exercise
// sid/rev stability and the coalescing batcher.
type clockScreen struct{}

func (clockScreen) Schema() vm.Map { return vm.Map{"clock_label": "Label 0"} }

func (clockScreen) HandleEvent(name string, payload map[string]any, state *screen.State) *screen.State {
	if name != "set_label" {
		return state
	}
	next := state.Clone()
	next.Assign("clock_label", payload["label"])
	return next
}

// devicesScreen holds a table keyed by id, used to exercise scoped-diff
// precision on a single nested leaf.
type devicesScreen struct {
	ids []string
}

func (devicesScreen) Schema() vm.Map {
	return vm.Map{"devices": vm.Map{"order": []any{}, "by_id": vm.Map{}}}
}

func (d devicesScreen) Mount(params map[string]string, screenSession string, initial *screen.State) (*screen.State, error) {
	order := make([]any, len(d.ids))
	byID := make(vm.Map, len(d.ids))
	for i, id := range d.ids {
		order[i] = id
		byID[id] = vm.Map{"status": "Online"}
	}
	initial.Assign("devices", vm.Map{"order": order, "by_id": byID})
	return initial, nil
}

func (devicesScreen) HandleEvent(name string, payload map[string]any, state *screen.State) *screen.State {
	if name != "set_status" {
		return state
	}
	id, _ := payload["id"].(string)
	status, _ := payload["status"].(string)
	devices := state.Get("devices").(vm.Map).Clone()
	byID := devices["by_id"].(vm.Map)
	entry := byID[id].(vm.Map).Clone()
	entry["status"] = status
	byID[id] = entry
	devices["by_id"] = byID

	next := state.Clone()
	next.Assign("devices", devices)
	return next
}

// faultyScreen always fails to render, to exercise the error-VM path.
type faultyScreen struct{}

func (faultyScreen) Schema() vm.Map { return vm.Map{} }

func (faultyScreen) Render(assigns vm.Map) (vm.Map, error) {
	return nil, errors.New("boom")
}

// countingScreen increments a counter on mount, so tests can tell how many
// times it was (re)mounted.
type countingScreen struct {
	mounts *int
}

func (countingScreen) Schema() vm.Map { return vm.Map{"n": 0} }

func (c countingScreen) Mount(params map[string]string, screenSession string, initial *screen.State) (*screen.State, error) {
	*c.mounts++
	initial.Assign("n", *c.mounts)
	return initial, nil
}

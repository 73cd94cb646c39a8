package main

import (
	"fmt"
	"time"

	"github.com/isaiahdw/projection/pkg/screen"
	"github.com/isaiahdw/projection/pkg/vm"
)

// clockScreen renders a label that advances on every tick and resets on an
// explicit "reset" intent. It demonstrates InfoHandler + EventHandler.
type clockScreen struct{}

func (clockScreen) Schema() vm.Map {
	return vm.Map{"label": "00:00:00", "ticks": 0}
}

func (clockScreen) HandleInfo(message any, state *screen.State) *screen.State {
	if message != "tick" {
		return state
	}
	next := state.Clone()
	ticks := state.Get("ticks").(int) + 1
	next.Assign("ticks", ticks)
	next.Assign("label", time.Now().Format("15:04:05"))
	return next
}

func (clockScreen) HandleEvent(name string, payload map[string]any, state *screen.State) *screen.State {
	if name != "reset" {
		return state
	}
	next := state.Clone()
	next.Assign("ticks", 0)
	next.Assign("label", "00:00:00")
	return next
}

// devicesScreen holds a small id-keyed table, seeded at mount with a fixed
// set of three sensors (route params are not used), and exercises scoped
// single-leaf patches.
type devicesScreen struct{}

func (devicesScreen) Schema() vm.Map {
	return vm.Map{"devices": vm.Map{"order": []any{}, "by_id": vm.Map{}}}
}

func (devicesScreen) Mount(params map[string]string, screenSession string, initial *screen.State) (*screen.State, error) {
	ids := []string{"sensor-1", "sensor-2", "sensor-3"}
	order := make([]any, len(ids))
	byID := make(vm.Map, len(ids))
	for i, id := range ids {
		order[i] = id
		byID[id] = vm.Map{"status": "online"}
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
	if id == "" {
		return state
	}
	devices := state.Get("devices").(vm.Map).Clone()
	byID := devices["by_id"].(vm.Map)
	entry, ok := byID[id].(vm.Map)
	if !ok {
		return state
	}
	entry = entry.Clone()
	entry["status"] = status
	byID[id] = entry
	devices["by_id"] = byID

	next := state.Clone()
	next.Assign("devices", devices)
	return next
}

func (devicesScreen) Subscriptions(params map[string]string, screenSession string) []string {
	return []string{"devices.status"}
}

// settingsScreen lives in the admin navigation boundary, to exercise the
// router's cross-boundary navigation guard against the clock/devices
// boundary.
type settingsScreen struct{}

func (settingsScreen) Schema() vm.Map {
	return vm.Map{"theme": "dark"}
}

func (settingsScreen) HandleEvent(name string, payload map[string]any, state *screen.State) *screen.State {
	if name != "set_theme" {
		return state
	}
	theme, _ := payload["theme"].(string)
	if theme == "" {
		return state
	}
	next := state.Clone()
	next.Assign("theme", theme)
	return next
}

func (settingsScreen) Render(assigns vm.Map) (vm.Map, error) {
	return vm.Map{"theme": assigns["theme"], "label": fmt.Sprintf("theme: %s", assigns["theme"])}, nil
}

package session

import "github.com/isaiahdw/projection/pkg/vm"

// composeRouterVM builds the router-mode framing wrapper around a screen's
// rendered sub-VM (§4.3).
func composeRouterVM(appTitle string, navVM map[string]any, screenName, action string, screenVM vm.Map) vm.Map {
	return vm.Map{
		"app":    vm.Map{"title": appTitle},
		"nav":    toVMMap(navVM),
		"screen": vm.Map{"name": screenName, "action": action, "vm": screenVM},
	}
}

// errorVM builds the error VM of §4.9: it replaces the normal VM for a
// render cycle whose screen render faulted. navVM may be nil (single-screen
// mode), in which case an empty stack is used.
func errorVM(appTitle string, navVM map[string]any, message, screenModule string) vm.Map {
	nav := toVMMap(navVM)
	if nav == nil {
		nav = vm.Map{"stack": []any{}, "current": nil}
	}
	return vm.Map{
		"app": vm.Map{"title": appTitle},
		"nav": nav,
		"screen": vm.Map{
			"name":   "error",
			"action": "render_error",
			"vm": vm.Map{
				"title":         "Rendering Error",
				"message":       message,
				"screen_module": screenModule,
			},
		},
	}
}

func toVMMap(m map[string]any) vm.Map {
	if m == nil {
		return nil
	}
	return vm.Map(m)
}

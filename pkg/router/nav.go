package router

import "errors"

// ErrNavEmpty is returned by Back when the nav stack holds only one entry;
// popping it would leave no current screen, which is never valid (§4.6).
var ErrNavEmpty = errors.New("router: nav stack has only one entry")

// Nav is a non-empty stack of route entries. The top of the stack (index
// len-1) is the current screen. It is stored top-last internally for O(1)
// push/pop; ToVM presents it oldest-first for the UI.
type Nav struct {
	stack []Entry
}

// InitialNav seeds a Nav with a single entry, as when a router-mode session
// starts.
func InitialNav(name string, params map[string]string) *Nav {
	return &Nav{stack: []Entry{{Name: name, Params: cloneParams(params)}}}
}

func cloneParams(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// Current returns the top nav entry.
func (n *Nav) Current() Entry {
	return n.stack[len(n.stack)-1]
}

// Push appends a new entry on top of the stack.
func (n *Nav) Push(name string, params map[string]string, action string) {
	n.stack = append(n.stack, Entry{Name: name, Params: cloneParams(params), Action: action})
}

// Back pops the top entry. It is an error to pop the last remaining entry.
func (n *Nav) Back() error {
	if len(n.stack) <= 1 {
		return ErrNavEmpty
	}
	n.stack = n.stack[:len(n.stack)-1]
	return nil
}

// PatchTop merges patch into the top entry's params without pushing a new
// frame.
func (n *Nav) PatchTop(patch map[string]string) {
	top := n.stack[len(n.stack)-1]
	merged := cloneParams(top.Params)
	for k, v := range patch {
		merged[k] = v
	}
	top.Params = merged
	n.stack[len(n.stack)-1] = top
}

// ToVM renders the stack for the outbound view-model: entries from bottom
// to top (oldest first), plus the current (top) entry called out
// separately (§4.6). The stack is stored oldest-first already (Push
// appends), so no reordering is needed here.
func (n *Nav) ToVM() map[string]any {
	stackVM := make([]any, len(n.stack))
	for i, e := range n.stack {
		stackVM[i] = entryVM(e)
	}
	return map[string]any{
		"stack":   stackVM,
		"current": entryVM(n.Current()),
	}
}

func entryVM(e Entry) map[string]any {
	params := make(map[string]any, len(e.Params))
	for k, v := range e.Params {
		params[k] = v
	}
	return map[string]any{
		"name":   e.Name,
		"params": params,
		"action": e.Action,
	}
}

// Clone returns a deep, independent copy of n.
func (n *Nav) Clone() *Nav {
	stack := make([]Entry, len(n.stack))
	for i, e := range n.stack {
		stack[i] = e.clone()
	}
	return &Nav{stack: stack}
}

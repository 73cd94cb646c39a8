package router

import (
	"errors"
	"fmt"
)

// ErrUnknownRoute is returned by Resolve for a name not present in the
// table.
var ErrUnknownRoute = errors.New("router: unknown route")

// ErrNoRoutes is returned by New when defs is empty; a router needs at
// least a default route.
var ErrNoRoutes = errors.New("router: no route definitions")

// Table is the static, immutable route table built from a list of
// RouteDefs (§4.6). It is safe to share a *Table across sessions.
type Table struct {
	defs        map[string]RouteDef
	defaultName string
}

// New builds a Table from defs. The first entry in defs is the default
// route. Duplicate names are rejected.
func New(defs []RouteDef) (*Table, error) {
	if len(defs) == 0 {
		return nil, ErrNoRoutes
	}
	t := &Table{defs: make(map[string]RouteDef, len(defs)), defaultName: defs[0].Name}
	for _, d := range defs {
		if _, exists := t.defs[d.Name]; exists {
			return nil, fmt.Errorf("router: duplicate route name %q", d.Name)
		}
		t.defs[d.Name] = d
	}
	return t, nil
}

// DefaultRouteName returns the name of the route used to seed a session's
// initial nav when none is specified.
func (t *Table) DefaultRouteName() string {
	return t.defaultName
}

// RouteDefs returns the full name-to-definition table.
func (t *Table) RouteDefs() map[string]RouteDef {
	out := make(map[string]RouteDef, len(t.defs))
	for k, v := range t.defs {
		out[k] = v
	}
	return out
}

// Resolve looks up a route by name.
func (t *Table) Resolve(name string) (RouteDef, error) {
	d, ok := t.defs[name]
	if !ok {
		return RouteDef{}, fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	return d, nil
}

// InitialNav seeds a Nav at name with params, resolving the route to
// validate it exists.
func (t *Table) InitialNav(name string, params map[string]string) (*Nav, error) {
	if _, err := t.Resolve(name); err != nil {
		return nil, err
	}
	return InitialNav(name, params), nil
}

// Current returns the RouteDef for nav's current entry.
func (t *Table) Current(nav *Nav) (RouteDef, error) {
	return t.Resolve(nav.Current().Name)
}

// ScreenSessionTransition reports whether navigating from nav's current
// entry to toName would cross a routing boundary — forbidden per §4.6.
// An unknown toName is conservatively treated as a transition (the caller
// rejects the navigate as a no-op either way).
func (t *Table) ScreenSessionTransition(nav *Nav, toName string) bool {
	from, err := t.Current(nav)
	if err != nil {
		return true
	}
	to, err := t.Resolve(toName)
	if err != nil {
		return true
	}
	return from.ScreenSession != to.ScreenSession
}

// Navigate pushes a new nav entry for name/params. The caller must check
// ScreenSessionTransition first; Navigate itself does not enforce the
// boundary so it can also be used for same-boundary pushes during tests.
func (t *Table) Navigate(nav *Nav, name string, params map[string]string) error {
	def, err := t.Resolve(name)
	if err != nil {
		return err
	}
	nav.Push(def.Name, params, def.Action)
	return nil
}

// Back pops the top nav entry.
func (t *Table) Back(nav *Nav) error {
	return nav.Back()
}

// Patch merges params into the top nav entry without pushing.
func (t *Table) Patch(nav *Nav, params map[string]string) {
	nav.PatchTop(params)
}

// ToVM renders nav for the outbound view-model.
func (t *Table) ToVM(nav *Nav) map[string]any {
	return nav.ToVM()
}

package screen

import (
	"sort"

	"github.com/isaiahdw/projection/pkg/vm"
)

// State holds a screen's assigns plus the set of fields that have changed
// since the last ClearChanged. It is the unit of per-field change tracking
// that feeds the session's scoped diff (§4.4).
type State struct {
	assigns vm.Map
	changed map[string]struct{}
}

// New seeds a State from initial. Initial values are never considered
// changes: the returned State's ChangedFields is always empty.
func New(initial vm.Map) *State {
	return &State{
		assigns: initial.Clone(),
		changed: make(map[string]struct{}),
	}
}

// Assign upserts key. If the stored value is already identical to value
// (per vm.Equal), the container is left untouched and key is not recorded
// as changed — the identity-guard invariant of §4.4.
func (s *State) Assign(key string, value any) {
	if cur, ok := s.assigns[key]; ok && vm.Equal(cur, value) {
		return
	}
	s.assigns[key] = value
	s.changed[key] = struct{}{}
}

// Update assigns key the result of fn applied to its current value.
func (s *State) Update(key string, fn func(current any) any) {
	s.Assign(key, fn(s.assigns[key]))
}

// Get returns the current value of key, or nil if unset.
func (s *State) Get(key string) any {
	return s.assigns[key]
}

// Assigns returns a snapshot of the current assigns.
func (s *State) Assigns() vm.Map {
	return s.assigns.Clone()
}

// ChangedFields returns the fields changed since the last ClearChanged, in
// sorted order.
func (s *State) ChangedFields() []string {
	fields := make([]string, 0, len(s.changed))
	for k := range s.changed {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// ClearChanged empties the changed-fields set. The session calls this once
// per outbound patch cycle, after snapshotting ChangedFields for the
// differ.
func (s *State) ClearChanged() {
	s.changed = make(map[string]struct{})
}

// Clone returns a deep, independent copy of s, including its changed set.
func (s *State) Clone() *State {
	changed := make(map[string]struct{}, len(s.changed))
	for k := range s.changed {
		changed[k] = struct{}{}
	}
	return &State{assigns: s.assigns.Clone(), changed: changed}
}

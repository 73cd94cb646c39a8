package screen

import (
	"errors"
	"reflect"
	"testing"

	"github.com/isaiahdw/projection/pkg/vm"
)

type schemaOnly struct{}

func (schemaOnly) Schema() vm.Map { return vm.Map{"count": 0, "label": "idle"} }

type mountingModule struct {
	schemaOnly
	err  error
	nilS bool
}

func (m mountingModule) Mount(params map[string]string, screenSession string, initial *State) (*State, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.nilS {
		return nil, nil
	}
	initial.Assign("label", params["label"])
	return initial, nil
}

type panickingMounter struct{ schemaOnly }

func (panickingMounter) Mount(params map[string]string, screenSession string, initial *State) (*State, error) {
	panic("boom")
}

func TestMountDefaultsWhenNoMounter(t *testing.T) {
	d := NewDispatcher(nil)
	st, err := d.Mount(schemaOnly{}, nil, "s1")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got := st.Get("count"); got != 0 {
		t.Errorf("Get(count) = %v, want 0", got)
	}
}

func TestMountRunsMounter(t *testing.T) {
	d := NewDispatcher(nil)
	st, err := d.Mount(mountingModule{}, map[string]string{"label": "ready"}, "s1")
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if got := st.Get("label"); got != "ready" {
		t.Errorf("Get(label) = %v, want ready", got)
	}
}

func TestMountErrorIsHardFailure(t *testing.T) {
	d := NewDispatcher(nil)
	_, err := d.Mount(mountingModule{err: errors.New("db down")}, nil, "s1")
	if !errors.Is(err, ErrMountFailed) {
		t.Fatalf("Mount() err = %v, want wrapping ErrMountFailed", err)
	}
}

func TestMountNilStateIsHardFailure(t *testing.T) {
	d := NewDispatcher(nil)
	_, err := d.Mount(mountingModule{nilS: true}, nil, "s1")
	if !errors.Is(err, ErrMountFailed) {
		t.Fatalf("Mount() err = %v, want wrapping ErrMountFailed", err)
	}
}

func TestMountPanicIsHardFailure(t *testing.T) {
	d := NewDispatcher(nil)
	_, err := d.Mount(panickingMounter{}, nil, "s1")
	if !errors.Is(err, ErrMountFailed) {
		t.Fatalf("Mount() err = %v, want wrapping ErrMountFailed", err)
	}
}

type eventModule struct {
	schemaOnly
	panics bool
	nilOut bool
}

func (m eventModule) HandleEvent(name string, payload map[string]any, state *State) *State {
	if m.panics {
		panic("boom")
	}
	if m.nilOut {
		return nil
	}
	next := state.Clone()
	next.Assign("label", name)
	return next
}

func TestHandleEventNoHandlerIsNoOp(t *testing.T) {
	d := NewDispatcher(nil)
	st := New(vm.Map{"count": 0})
	got := d.HandleEvent(schemaOnly{}, "click", nil, st)
	if got != st {
		t.Errorf("HandleEvent() without handler should return same state unchanged")
	}
}

func TestHandleEventAppliesResult(t *testing.T) {
	d := NewDispatcher(nil)
	st := New(vm.Map{"label": "idle"})
	got := d.HandleEvent(eventModule{}, "clicked", nil, st)
	if got.Get("label") != "clicked" {
		t.Errorf("Get(label) = %v, want clicked", got.Get("label"))
	}
}

func TestHandleEventPanicPreservesState(t *testing.T) {
	d := NewDispatcher(nil)
	st := New(vm.Map{"label": "idle"})
	got := d.HandleEvent(eventModule{panics: true}, "clicked", nil, st)
	if got != st {
		t.Errorf("HandleEvent() on panic should preserve original state reference")
	}
}

func TestHandleEventNilResultPreservesState(t *testing.T) {
	d := NewDispatcher(nil)
	st := New(vm.Map{"label": "idle"})
	got := d.HandleEvent(eventModule{nilOut: true}, "clicked", nil, st)
	if got != st {
		t.Errorf("HandleEvent() on nil result should preserve original state reference")
	}
}

type paramsModule struct {
	schemaOnly
}

func (paramsModule) HandleParams(params map[string]string, state *State) *State {
	next := state.Clone()
	next.Assign("label", params["label"])
	return next
}

func TestHandleParamsUnhandledSignalsRemount(t *testing.T) {
	d := NewDispatcher(nil)
	st := New(vm.Map{"label": "idle"})
	_, handled := d.HandleParams(schemaOnly{}, map[string]string{"label": "x"}, st)
	if handled {
		t.Errorf("HandleParams() handled = true, want false for a screen without ParamsHandler")
	}
}

func TestHandleParamsAppliesResult(t *testing.T) {
	d := NewDispatcher(nil)
	st := New(vm.Map{"label": "idle"})
	got, handled := d.HandleParams(paramsModule{}, map[string]string{"label": "x"}, st)
	if !handled {
		t.Fatal("HandleParams() handled = false, want true")
	}
	if got.Get("label") != "x" {
		t.Errorf("Get(label) = %v, want x", got.Get("label"))
	}
}

type renderingModule struct {
	schemaOnly
	err    error
	nilOut bool
	panics bool
}

func (m renderingModule) Render(assigns vm.Map) (vm.Map, error) {
	if m.panics {
		panic("boom")
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.nilOut {
		return nil, nil
	}
	return vm.Map{"doubled": assigns["count"].(int) * 2}, nil
}

func TestRenderDefaultProjectsSchemaKeys(t *testing.T) {
	d := NewDispatcher(nil)
	out, err := d.Render(schemaOnly{}, vm.Map{"count": 3})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := vm.Map{"count": 3, "label": "idle"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("Render() = %v, want %v", out, want)
	}
}

func TestRenderUsesRenderer(t *testing.T) {
	d := NewDispatcher(nil)
	out, err := d.Render(renderingModule{}, vm.Map{"count": 3})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out["doubled"] != 6 {
		t.Errorf("Render()[doubled] = %v, want 6", out["doubled"])
	}
}

func TestRenderErrorIsFault(t *testing.T) {
	d := NewDispatcher(nil)
	_, err := d.Render(renderingModule{err: errors.New("boom")}, vm.Map{"count": 1})
	if err == nil {
		t.Fatal("expected render fault")
	}
}

func TestRenderNilMapIsFault(t *testing.T) {
	d := NewDispatcher(nil)
	_, err := d.Render(renderingModule{nilOut: true}, vm.Map{"count": 1})
	if err == nil {
		t.Fatal("expected render fault for nil map")
	}
}

func TestRenderPanicIsFault(t *testing.T) {
	d := NewDispatcher(nil)
	_, err := d.Render(renderingModule{panics: true}, vm.Map{"count": 1})
	if err == nil {
		t.Fatal("expected render fault for panic")
	}
}

type subscribingModule struct {
	schemaOnly
}

func (subscribingModule) Subscriptions(params map[string]string, screenSession string) []string {
	return []string{"topic:" + params["id"]}
}

func TestSubscriptionsDefaultsToEmpty(t *testing.T) {
	d := NewDispatcher(nil)
	if got := d.Subscriptions(schemaOnly{}, nil, "s1"); got != nil {
		t.Errorf("Subscriptions() = %v, want nil", got)
	}
}

func TestSubscriptionsUsesSubscriber(t *testing.T) {
	d := NewDispatcher(nil)
	got := d.Subscriptions(subscribingModule{}, map[string]string{"id": "42"}, "s1")
	want := []string{"topic:42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Subscriptions() = %v, want %v", got, want)
	}
}

package screen

import (
	"reflect"
	"testing"

	"github.com/isaiahdw/projection/pkg/vm"
)

func TestNewHasNoChangedFields(t *testing.T) {
	s := New(vm.Map{"count": 0})
	if got := s.ChangedFields(); len(got) != 0 {
		t.Errorf("ChangedFields() after New = %v, want empty", got)
	}
}

func TestAssignRecordsChange(t *testing.T) {
	s := New(vm.Map{"count": 0})
	s.Assign("count", 1)
	if got := s.Get("count"); got != 1 {
		t.Errorf("Get(count) = %v, want 1", got)
	}
	if got := s.ChangedFields(); !reflect.DeepEqual(got, []string{"count"}) {
		t.Errorf("ChangedFields() = %v, want [count]", got)
	}
}

func TestAssignIdenticalValueIsNotAChange(t *testing.T) {
	s := New(vm.Map{"count": 1})
	s.ClearChanged()
	s.Assign("count", 1)
	if got := s.ChangedFields(); len(got) != 0 {
		t.Errorf("ChangedFields() after re-assigning identical value = %v, want empty", got)
	}
}

func TestUpdateDerivesFromCurrent(t *testing.T) {
	s := New(vm.Map{"count": 1})
	s.Update("count", func(cur any) any { return cur.(int) + 1 })
	if got := s.Get("count"); got != 2 {
		t.Errorf("Get(count) = %v, want 2", got)
	}
}

func TestClearChangedEmptiesSet(t *testing.T) {
	s := New(vm.Map{"count": 0})
	s.Assign("count", 1)
	s.ClearChanged()
	if got := s.ChangedFields(); len(got) != 0 {
		t.Errorf("ChangedFields() after ClearChanged = %v, want empty", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New(vm.Map{"count": 0})
	s.Assign("count", 1)
	clone := s.Clone()
	clone.Assign("count", 2)
	if s.Get("count") != 1 {
		t.Errorf("original mutated via clone: Get(count) = %v, want 1", s.Get("count"))
	}
	if got := s.ChangedFields(); !reflect.DeepEqual(got, []string{"count"}) {
		t.Errorf("original ChangedFields() = %v, want [count]", got)
	}
}

func TestAssignsReturnsSnapshot(t *testing.T) {
	s := New(vm.Map{"count": 0})
	snap := s.Assigns()
	s.Assign("count", 5)
	if snap["count"] != 0 {
		t.Errorf("snapshot mutated: snap[count] = %v, want 0", snap["count"])
	}
}

package batcher

import (
	"testing"
	"time"

	"github.com/isaiahdw/projection/pkg/vm"
)

// fakeScheduler captures the scheduled function without running it, so
// tests control exactly when a timer fires.
type fakeScheduler struct {
	scheduled int
	fn        func()
	cancelled int
}

func (f *fakeScheduler) Schedule(d time.Duration, fn func()) Cancel {
	f.scheduled++
	f.fn = fn
	return func() { f.cancelled++ }
}

func (f *fakeScheduler) fire() {
	f.fn()
}

func i64(v int64) *int64 { return &v }

func TestEnqueueFlushesImmediatelyWhenWindowZero(t *testing.T) {
	var gotOps []vm.Op
	var gotAck *int64
	b := New(0, 100, nil, func(ops []vm.Op, ack *int64) {
		gotOps = ops
		gotAck = ack
	})
	b.Enqueue([]vm.Op{vm.Add("/a", 1)}, i64(1))
	if len(gotOps) != 1 {
		t.Fatalf("flushed ops = %v, want 1 op", gotOps)
	}
	if gotAck == nil || *gotAck != 1 {
		t.Errorf("flushed ack = %v, want 1", gotAck)
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() after flush = %d, want 0", b.Pending())
	}
}

func TestEnqueueSchedulesTimerWhenWindowPositive(t *testing.T) {
	sched := &fakeScheduler{}
	flushed := false
	b := New(50, 100, sched, func(ops []vm.Op, ack *int64) { flushed = true })
	b.Enqueue([]vm.Op{vm.Add("/a", 1)}, nil)
	if flushed {
		t.Fatal("should not flush before the timer fires")
	}
	if sched.scheduled != 1 {
		t.Fatalf("scheduled = %d, want 1", sched.scheduled)
	}
	sched.fire()
	if !flushed {
		t.Fatal("expected flush after timer fires")
	}
}

func TestSecondEnqueueDoesNotResetTimer(t *testing.T) {
	sched := &fakeScheduler{}
	b := New(50, 100, sched, func(ops []vm.Op, ack *int64) {})
	b.Enqueue([]vm.Op{vm.Add("/a", 1)}, nil)
	b.Enqueue([]vm.Op{vm.Add("/b", 2)}, nil)
	if sched.scheduled != 1 {
		t.Errorf("scheduled = %d, want 1 (timer must not be reset)", sched.scheduled)
	}
}

func TestEnqueueFlushesAtMaxPendingOps(t *testing.T) {
	sched := &fakeScheduler{}
	flushCount := 0
	b := New(50, 2, sched, func(ops []vm.Op, ack *int64) { flushCount++ })
	b.Enqueue([]vm.Op{vm.Add("/a", 1)}, nil)
	b.Enqueue([]vm.Op{vm.Add("/b", 2)}, nil)
	if flushCount != 1 {
		t.Errorf("flushCount = %d, want 1 once max_pending_ops is reached", flushCount)
	}
}

func TestCoalesceKeepsLatestPerPathStableOrder(t *testing.T) {
	var gotOps []vm.Op
	b := New(0, 100, nil, func(ops []vm.Op, ack *int64) { gotOps = ops })
	b.pendingOps = []vm.Op{vm.Add("/a", 1), vm.Add("/b", 2)}
	b.Enqueue([]vm.Op{vm.Replace("/a", 9)}, nil)
	if len(gotOps) != 2 {
		t.Fatalf("gotOps = %v, want 2 ops", gotOps)
	}
	if gotOps[0].Path != "/a" || gotOps[0].Value != 9 {
		t.Errorf("gotOps[0] = %+v, want /a replaced with 9, first position kept", gotOps[0])
	}
	if gotOps[1].Path != "/b" {
		t.Errorf("gotOps[1].Path = %q, want /b", gotOps[1].Path)
	}
}

func TestAckMergeTakesMax(t *testing.T) {
	var gotAck *int64
	b := New(0, 100, nil, func(ops []vm.Op, ack *int64) { gotAck = ack })
	b.pendingOps = []vm.Op{vm.Add("/a", 1)}
	b.pendingAck = i64(3)
	b.Enqueue([]vm.Op{vm.Add("/b", 2)}, i64(5))
	if gotAck == nil || *gotAck != 5 {
		t.Errorf("gotAck = %v, want 5", gotAck)
	}
}

func TestAckMergeKeepsDefinedWhenOtherMissing(t *testing.T) {
	var gotAck *int64
	b := New(0, 100, nil, func(ops []vm.Op, ack *int64) { gotAck = ack })
	b.Enqueue([]vm.Op{vm.Add("/a", 1)}, i64(7))
	if gotAck == nil || *gotAck != 7 {
		t.Errorf("gotAck = %v, want 7", gotAck)
	}
}

func TestFlushWithNothingPendingIsNoOp(t *testing.T) {
	called := false
	b := New(50, 100, nil, func(ops []vm.Op, ack *int64) { called = true })
	b.Flush()
	if called {
		t.Error("Flush() with nothing pending should not invoke onFlush")
	}
}

func TestClearDiscardsPendingWithoutEmitting(t *testing.T) {
	sched := &fakeScheduler{}
	called := false
	b := New(50, 100, sched, func(ops []vm.Op, ack *int64) { called = true })
	b.Enqueue([]vm.Op{vm.Add("/a", 1)}, i64(1))
	b.Clear()
	if called {
		t.Error("Clear() must not emit")
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() after Clear = %d, want 0", b.Pending())
	}
	if sched.cancelled != 1 {
		t.Errorf("cancelled = %d, want 1", sched.cancelled)
	}
}

func TestEnqueueEmptyAfterCoalesceSchedulesNoTimer(t *testing.T) {
	sched := &fakeScheduler{}
	b := New(50, 100, sched, func(ops []vm.Op, ack *int64) {})
	b.Enqueue([]vm.Op{{Op: vm.OpAdd, Path: "", Value: 1}}, i64(1))
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0 for a pathless op", b.Pending())
	}
	if sched.scheduled != 0 {
		t.Errorf("scheduled = %d, want 0 when nothing is pending", sched.scheduled)
	}
}

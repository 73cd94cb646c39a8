package batcher

import (
	"time"

	"github.com/isaiahdw/projection/pkg/vm"
)

// Batcher accumulates patch ops between flushes, coalescing by path and
// tracking the newest pending ack, per §4.8.
type Batcher struct {
	windowMs   int
	maxOps     int
	scheduler  Scheduler
	onFlush    func(ops []vm.Op, ack *int64)
	pendingOps []vm.Op
	pendingAck *int64
	cancel     Cancel
}

// New returns a Batcher that flushes through onFlush, either immediately
// (windowMs == 0 or the pending-op ceiling maxOps is reached) or windowMs
// after the enqueue that started the batch, scheduled via scheduler. Later
// enqueues do not reset that timer.
func New(windowMs, maxOps int, scheduler Scheduler, onFlush func(ops []vm.Op, ack *int64)) *Batcher {
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	return &Batcher{windowMs: windowMs, maxOps: maxOps, scheduler: scheduler, onFlush: onFlush}
}

// Enqueue appends ops to the pending set, coalesces by path, merges ack
// into the pending ack, and decides whether to flush now or schedule a
// timer (§4.8 steps 1-5).
func (b *Batcher) Enqueue(ops []vm.Op, ack *int64) {
	b.pendingOps = coalesce(append(b.pendingOps, ops...))
	b.pendingAck = mergeAck(b.pendingAck, ack)

	if len(b.pendingOps) == 0 {
		b.cancelTimer()
		b.pendingAck = nil
		return
	}
	if b.windowMs == 0 || len(b.pendingOps) >= b.maxOps {
		b.Flush()
		return
	}
	if b.cancel == nil {
		b.cancel = b.scheduler.Schedule(time.Duration(b.windowMs)*time.Millisecond, b.Flush)
	}
}

// Flush emits the coalesced ops and ack through onFlush if any are
// pending, then clears all batcher state. Calling Flush with nothing
// pending is a no-op.
func (b *Batcher) Flush() {
	b.cancelTimer()
	if len(b.pendingOps) == 0 {
		b.pendingAck = nil
		return
	}
	ops := b.pendingOps
	ack := b.pendingAck
	b.pendingOps = nil
	b.pendingAck = nil
	if b.onFlush != nil {
		b.onFlush(ops, ack)
	}
}

// Clear discards any pending ops, ack, and timer without emitting — used
// when a new ready supersedes the batch (§4.8, "Ready clears the batch").
func (b *Batcher) Clear() {
	b.cancelTimer()
	b.pendingOps = nil
	b.pendingAck = nil
}

// Pending reports the number of currently coalesced ops, for tests and
// diagnostics.
func (b *Batcher) Pending() int {
	return len(b.pendingOps)
}

func (b *Batcher) cancelTimer() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func mergeAck(old, incoming *int64) *int64 {
	switch {
	case old == nil:
		return incoming
	case incoming == nil:
		return old
	case *incoming > *old:
		return incoming
	default:
		return old
	}
}

// coalesce walks ops keeping the latest op for each distinct path,
// preserving the position of that path's first occurrence. Ops with an
// empty path are dropped (§4.8 step 2).
func coalesce(ops []vm.Op) []vm.Op {
	latest := make(map[string]vm.Op, len(ops))
	order := make([]string, 0, len(ops))
	for _, op := range ops {
		if op.Path == "" {
			continue
		}
		if _, seen := latest[op.Path]; !seen {
			order = append(order, op.Path)
		}
		latest[op.Path] = op
	}
	out := make([]vm.Op, len(order))
	for i, path := range order {
		out[i] = latest[path]
	}
	return out
}

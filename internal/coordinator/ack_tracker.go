package coordinator

import (
	"sync/atomic"
	"time"

	"github.com/dreamware/indexcoord/internal/timer"
)

// AckTracker is the Peer Acknowledgment Tracker of spec.md §4.5: an atomic
// countdown that fires a success callback when it reaches zero, racing a
// timer that fires a timeout callback. Whichever fires first settles the
// operation; a compare-and-swap latch guarantees exactly one of them runs.
type AckTracker struct {
	targetIndex string
	remaining   atomic.Int64
	settled     atomic.Bool
	registry    *NotifyRegistry
	token       int64
	timer       *timer.Timer
	onSettle    func(acknowledged bool)
}

// NewAckTracker constructs a tracker for targetIndex with expectedCount
// peers outstanding, registers it with registry, and arms a timeout timer.
// If expectedCount <= 0, onSettle(true) fires synchronously before
// NewAckTracker returns and neither the registry nor a timer is touched
// (spec.md §4.5: "success fires immediately and the timer is never
// armed").
func NewAckTracker(targetIndex string, expectedCount int, timeout time.Duration, registry *NotifyRegistry, onSettle func(acknowledged bool)) *AckTracker {
	t := &AckTracker{targetIndex: targetIndex, registry: registry, onSettle: onSettle}
	if expectedCount <= 0 {
		t.settled.Store(true)
		onSettle(true)
		return t
	}
	t.remaining.Store(int64(expectedCount))
	t.token = registry.Add(ListenerFunc(t.onNotification))
	t.timer = timer.AfterFunc(timeout, func() { t.settle(false) })
	return t
}

func (t *AckTracker) onNotification(indexName, nodeID string) {
	if indexName != t.targetIndex {
		return
	}
	if t.remaining.Add(-1) == 0 {
		t.settle(true)
	}
}

// settle runs onSettle at most once, on whichever of the ack path or the
// timeout path reaches the compare-and-swap first. The loser deregisters
// nothing further: the winner cancels the timer (on the ack path) and
// deregisters from the registry either way.
func (t *AckTracker) settle(acknowledged bool) {
	if !t.settled.CompareAndSwap(false, true) {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.registry != nil {
		t.registry.Remove(t.token)
	}
	t.onSettle(acknowledged)
}

package sim

import "container/heap"

// Time is a non-negative integer simulated timestamp.
type Time uint64

// PortIndexWhole denotes "re-evaluate the whole component" in an Event's
// PortIndex field, rather than a specific port (spec §4.3).
const PortIndexWhole = -1

// Event is a unit of scheduled work: re-evaluate a component no earlier than
// Time. PortIndex names the input port whose change caused the event, or is
// PortIndexWhole; the kernel re-evaluates the whole component either way.
type Event struct {
	Time        Time
	Sequence    uint64
	ComponentID string
	PortIndex   int
}

// eventQueue is a priority queue over Events ordered by (Time, Sequence),
// giving deterministic replay for identical netlists and operation
// histories (spec §4.3, §9 "Determinism").
type eventQueue struct {
	h   eventHeap
	seq uint64
}

func newEventQueue() *eventQueue {
	return &eventQueue{}
}

// Push assigns the next monotonic sequence number and inserts ev.
func (q *eventQueue) Push(ev Event) {
	ev.Sequence = q.seq
	q.seq++
	heap.Push(&q.h, ev)
}

// Peek returns the head event without removing it.
func (q *eventQueue) Peek() (Event, bool) {
	if len(q.h) == 0 {
		return Event{}, false
	}
	return q.h[0], true
}

// Pop removes and returns the head event.
func (q *eventQueue) Pop() (Event, bool) {
	if len(q.h) == 0 {
		return Event{}, false
	}
	ev := heap.Pop(&q.h).(Event)
	return ev, true
}

// RemoveEventsFor purges every pending event for the given component, e.g.
// when the component is removed from the netlist.
func (q *eventQueue) RemoveEventsFor(componentID string) {
	filtered := q.h[:0]
	for _, ev := range q.h {
		if ev.ComponentID != componentID {
			filtered = append(filtered, ev)
		}
	}
	q.h = filtered
	heap.Init(&q.h)
}

// Clear empties the queue. The sequence counter is not reset: events pushed
// after a Clear must still compare greater than anything pushed before it,
// so that stale references (if any survive a bug) always sort last.
func (q *eventQueue) Clear() {
	q.h = q.h[:0]
}

// Size returns the number of pending events.
func (q *eventQueue) Size() int { return len(q.h) }

// Empty reports whether the queue has no pending events.
func (q *eventQueue) Empty() bool { return len(q.h) == 0 }

type eventHeap []Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].Sequence < h[j].Sequence
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	ev := old[n-1]
	*h = old[:n-1]
	return ev
}

// Defines the EventQueue, a mutable min-heap of scheduled events ordered by
// (time, priority, insertion sequence), with O(log n) erase and reschedule by id.

package sim

import "container/heap"

// EventKind identifies the payload carried by an EventItem.
type EventKind string

const (
	EventScenario    EventKind = "SCENARIO"
	EventJobFinished EventKind = "JOB_FINISHED"
	EventJobReserved EventKind = "JOB_RESERVED"
	EventDispatch    EventKind = "DISPATCH"
	EventLog         EventKind = "LOG"
	EventCount       EventKind = "COUNT"
)

// Priority tiers used when scheduling events. Higher fires first (see
// eventHeap.Less) among events at the same timestamp.
//
// A host's release of one job (JOB_FINISHED) must resolve before anything
// that might claim the freed capacity: a reservation committed against that
// exact release (JOB_RESERVED) or a same-tick DISPATCH pass looking for
// somewhere to place other pending work. And a reservation's own claim must
// itself outrank DISPATCH — otherwise a pass could hand the just-freed slot
// to an unrelated job before the reservation that was promised it runs.
// Insertion order alone cannot be trusted for the release-before-claim
// ordering: a JOB_RESERVED event can be scheduled long before the
// JOB_FINISHED event it is waiting on even exists (that JOB_FINISHED is only
// created when the prior occupant's own reservation starts), so the tiers
// below are strict rather than relying on seq as a tiebreak.
const (
	priorityDispatch         = 1
	priorityReservationStart = 2
	priorityRelease          = 3
)

// EventID uniquely identifies a scheduled EventItem within a run.
type EventID uint64

// EventItem is an entry in the EventQueue. Action is invoked by Simulation.Run
// once the item is popped; it carries exactly the data its Kind needs.
type EventItem struct {
	ID       EventID
	Time     int64
	Priority int
	Kind     EventKind
	Action   func(*Simulation)

	seq   uint64 // insertion order, for stable tie-breaking
	index int    // current slot in the heap, maintained by EventQueue
}

// eventHeap is the container/heap.Interface implementation backing EventQueue.
type eventHeap []*EventItem

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority // higher priority fires first
	}
	return a.seq < b.seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	item := x.(*EventItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// EventQueue is a priority queue of EventItems with identity lookup and
// in-place mutation (AddDelay, Erase), backed by container/heap plus an
// id → *EventItem index so every operation stays O(log n).
type EventQueue struct {
	heap    eventHeap
	byID    map[EventID]*EventItem
	nextID  EventID
	nextSeq uint64
}

// NewEventQueue returns an empty EventQueue.
func NewEventQueue() *EventQueue {
	return &EventQueue{
		heap: make(eventHeap, 0),
		byID: make(map[EventID]*EventItem),
	}
}

// Push inserts item, assigns it a fresh EventID, and returns that id.
func (q *EventQueue) Push(time int64, priority int, kind EventKind, action func(*Simulation)) EventID {
	q.nextID++
	item := &EventItem{
		ID:       q.nextID,
		Time:     time,
		Priority: priority,
		Kind:     kind,
		Action:   action,
		seq:      q.nextSeq,
	}
	q.nextSeq++
	heap.Push(&q.heap, item)
	q.byID[item.ID] = item
	return item.ID
}

// Pop removes and returns the event with the smallest (time, -priority, seq).
// Returns nil if the queue is empty.
func (q *EventQueue) Pop() *EventItem {
	if q.heap.Len() == 0 {
		return nil
	}
	item := heap.Pop(&q.heap).(*EventItem)
	delete(q.byID, item.ID)
	return item
}

// Erase removes the event identified by id. No-op if absent.
func (q *EventQueue) Erase(id EventID) {
	item, ok := q.byID[id]
	if !ok {
		return
	}
	heap.Remove(&q.heap, item.index)
	delete(q.byID, id)
}

// AddDelay increases the scheduled time of the event identified by id by
// delta and restores heap order. No-op if absent.
func (q *EventQueue) AddDelay(id EventID, delta int64) {
	item, ok := q.byID[id]
	if !ok {
		return
	}
	item.Time += delta
	heap.Fix(&q.heap, item.index)
}

// FindByID returns the event identified by id, or nil if absent.
func (q *EventQueue) FindByID(id EventID) *EventItem {
	return q.byID[id]
}

// Size returns the number of events currently queued.
func (q *EventQueue) Size() int { return q.heap.Len() }

// Empty reports whether the queue holds no events.
func (q *EventQueue) Empty() bool { return q.heap.Len() == 0 }

package action

import (
	"swfplay/internal/display"
)

// Entry is one queued action together with its target display object
type Entry struct {
	Target   display.DisplayObject
	Action   display.Action
	IsUnload bool
}

// Queue buffers deferred script work between frame boundaries. The timeline
// only appends; the script VM drains between ticks. Unload actions drain in
// their own phase, ahead of the rest.
type Queue struct {
	entries []Entry
}

// NewQueue creates an empty action queue
func NewQueue() *Queue {
	return &Queue{}
}

// QueueActions appends one action for the target
func (q *Queue) QueueActions(target display.DisplayObject, act display.Action, isUnload bool) {
	q.entries = append(q.entries, Entry{Target: target, Action: act, IsUnload: isUnload})
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	return len(q.entries)
}

// Entries returns the queued entries without draining them
func (q *Queue) Entries() []Entry {
	return q.entries
}

// Drain removes and returns all queued entries, unload entries first (in
// queue order), then the rest (in queue order).
func (q *Queue) Drain() []Entry {
	drained := make([]Entry, 0, len(q.entries))
	for _, e := range q.entries {
		if e.IsUnload {
			drained = append(drained, e)
		}
	}
	for _, e := range q.entries {
		if !e.IsUnload {
			drained = append(drained, e)
		}
	}
	q.entries = q.entries[:0]
	return drained
}

var _ display.ActionQueuer = (*Queue)(nil)

package service

import (
	"container/heap"
	"time"

	"taskmaster/internal/model"
)

// ReminderPlanner keeps a min-heap of upcoming reminder wakes so a runner
// can sleep until the next deadline enters its window instead of polling
// the whole list on a fixed interval. Rebuild it after every mutation or
// directory reload; it never mutates task state itself.
type ReminderPlanner struct {
	wakes wakeHeap
}

func NewReminderPlanner() *ReminderPlanner {
	return &ReminderPlanner{}
}

type wake struct {
	at     time.Time
	taskID string
}

type wakeHeap []wake

func (h wakeHeap) Len() int            { return len(h) }
func (h wakeHeap) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h wakeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *wakeHeap) Push(x any)         { *h = append(*h, x.(wake)) }
func (h *wakeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Reschedule rebuilds the heap from the given tasks. A task contributes a
// wake at deadline−window, or immediately when it is already inside the
// window; completed, notified, past-deadline and undeadlined tasks
// contribute nothing.
func (p *ReminderPlanner) Reschedule(tasks []model.Task, now time.Time) {
	p.wakes = p.wakes[:0]
	for _, t := range tasks {
		if t.Completed || t.Notified {
			continue
		}
		due, ok := t.DeadlineTime()
		if !ok || !due.After(now) {
			continue
		}
		at := due.Add(-DueSoonWindow)
		if at.Before(now) {
			at = now
		}
		p.wakes = append(p.wakes, wake{at: at, taskID: t.ID})
	}
	heap.Init(&p.wakes)
}

// NextWake reports when the runner should sweep next; false when no
// pending deadline remains.
func (p *ReminderPlanner) NextWake() (time.Time, bool) {
	if len(p.wakes) == 0 {
		return time.Time{}, false
	}
	return p.wakes[0].at, true
}

// Pending reports how many wakes are queued.
func (p *ReminderPlanner) Pending() int {
	return len(p.wakes)
}

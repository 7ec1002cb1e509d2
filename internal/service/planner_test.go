package service

import (
	"testing"
	"time"

	"taskmaster/internal/model"
)

func plannerTask(id string, due time.Time, completed, notified bool) model.Task {
	t := model.Task{ID: id, Title: id, Completed: completed, Notified: notified}
	if !due.IsZero() {
		t.Deadline = due.Format(time.RFC3339)
	}
	return t
}

func TestPlannerNextWake(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	t.Run("empty", func(t *testing.T) {
		p := NewReminderPlanner()
		p.Reschedule(nil, now)
		if _, ok := p.NextWake(); ok {
			t.Error("expected no wake for empty list")
		}
	})

	t.Run("earliest deadline wins", func(t *testing.T) {
		p := NewReminderPlanner()
		p.Reschedule([]model.Task{
			plannerTask("late", now.Add(2*time.Hour), false, false),
			plannerTask("early", now.Add(time.Hour), false, false),
			plannerTask("latest", now.Add(3*time.Hour), false, false),
		}, now)

		at, ok := p.NextWake()
		if !ok {
			t.Fatal("expected a wake")
		}
		want := now.Add(time.Hour).Add(-DueSoonWindow)
		if !at.Equal(want) {
			t.Errorf("wake: got %v, want %v", at, want)
		}
		if p.Pending() != 3 {
			t.Errorf("pending: got %d, want 3", p.Pending())
		}
	})

	t.Run("inside the window wakes immediately", func(t *testing.T) {
		p := NewReminderPlanner()
		p.Reschedule([]model.Task{
			plannerTask("imminent", now.Add(5*time.Minute), false, false),
		}, now)

		at, ok := p.NextWake()
		if !ok {
			t.Fatal("expected a wake")
		}
		if !at.Equal(now) {
			t.Errorf("wake: got %v, want now (%v)", at, now)
		}
	})
}

func TestPlannerSkipsIneligible(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	p := NewReminderPlanner()
	p.Reschedule([]model.Task{
		plannerTask("completed", now.Add(time.Hour), true, false),
		plannerTask("notified", now.Add(time.Hour), false, true),
		plannerTask("past", now.Add(-time.Hour), false, false),
		plannerTask("no deadline", time.Time{}, false, false),
	}, now)

	if p.Pending() != 0 {
		t.Errorf("pending: got %d, want 0", p.Pending())
	}
}

func TestPlannerRescheduleReplacesQueue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	p := NewReminderPlanner()

	p.Reschedule([]model.Task{
		plannerTask("a", now.Add(time.Hour), false, false),
		plannerTask("b", now.Add(2*time.Hour), false, false),
	}, now)
	p.Reschedule([]model.Task{
		plannerTask("c", now.Add(30*time.Minute), false, false),
	}, now)

	if p.Pending() != 1 {
		t.Errorf("pending after rebuild: got %d, want 1", p.Pending())
	}
	at, ok := p.NextWake()
	if !ok {
		t.Fatal("expected a wake")
	}
	want := now.Add(30 * time.Minute).Add(-DueSoonWindow)
	if !at.Equal(want) {
		t.Errorf("wake: got %v, want %v", at, want)
	}
}

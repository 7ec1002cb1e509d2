package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskmaster/internal/model"
)

// recordingNotifier captures alerts; set fail to simulate delivery errors.
type recordingNotifier struct {
	alerts []string
	fail   bool
}

func (n *recordingNotifier) DueSoon(_ context.Context, _ string, task model.Task, _ time.Time) error {
	if n.fail {
		return errors.New("delivery down")
	}
	n.alerts = append(n.alerts, task.ID)
	return nil
}

func seedTask(t *testing.T, env *testEnv, title string, due time.Time, offset time.Duration) *model.Task {
	t.Helper()
	env.setClock(testClockBase.Add(offset))
	deadline := ""
	if !due.IsZero() {
		deadline = due.Format(time.RFC3339)
	}
	task, err := env.tasks.Add(context.Background(), title, "", deadline, false)
	if err != nil {
		t.Fatalf("add %q: %v", title, err)
	}
	return task
}

func TestSweepFiresInsideWindow(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "John", "john@example.com")
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	inWindow := seedTask(t, env, "soon", now.Add(10*time.Minute), 0)
	seedTask(t, env, "later", now.Add(20*time.Minute), time.Second)
	seedTask(t, env, "passed", now.Add(-time.Minute), 2*time.Second)
	seedTask(t, env, "no deadline", time.Time{}, 3*time.Second)

	notifier := &recordingNotifier{}
	reminders := NewReminderService(env.directory, notifier)

	fired, err := reminders.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if fired != 1 {
		t.Errorf("fired: got %d, want 1", fired)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0] != inWindow.ID {
		t.Errorf("alerts: got %v, want [%s]", notifier.alerts, inWindow.ID)
	}

	// The notified flag must persist so the next sweep stays quiet.
	tasks, err := env.tasks.List(ctx, FilterAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, task := range tasks {
		if task.ID == inWindow.ID && !task.Notified {
			t.Error("notified flag not persisted")
		}
	}
}

func TestSweepFiresOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "John", "john@example.com")
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	seedTask(t, env, "soon", now.Add(5*time.Minute), 0)

	notifier := &recordingNotifier{}
	reminders := NewReminderService(env.directory, notifier)

	for i := 0; i < 3; i++ {
		if _, err := reminders.Sweep(ctx, now.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("sweep %d: %v", i, err)
		}
	}
	if len(notifier.alerts) != 1 {
		t.Errorf("alerts: got %d, want exactly 1", len(notifier.alerts))
	}
}

func TestSweepSkipsCompleted(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "John", "john@example.com")
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	task := seedTask(t, env, "done", now.Add(5*time.Minute), 0)
	if _, err := env.tasks.ToggleComplete(ctx, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	notifier := &recordingNotifier{}
	reminders := NewReminderService(env.directory, notifier)

	fired, err := reminders.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if fired != 0 || len(notifier.alerts) != 0 {
		t.Errorf("completed task notified: fired=%d alerts=%v", fired, notifier.alerts)
	}
}

func TestSweepRetriesAfterFailedDelivery(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "John", "john@example.com")
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	seedTask(t, env, "flaky", now.Add(5*time.Minute), 0)

	notifier := &recordingNotifier{fail: true}
	reminders := NewReminderService(env.directory, notifier)

	fired, err := reminders.Sweep(ctx, now)
	if err == nil {
		t.Error("expected delivery error")
	}
	if fired != 0 {
		t.Errorf("fired: got %d, want 0", fired)
	}

	notifier.fail = false
	fired, err = reminders.Sweep(ctx, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("retry sweep: %v", err)
	}
	if fired != 1 || len(notifier.alerts) != 1 {
		t.Errorf("retry: fired=%d alerts=%v", fired, notifier.alerts)
	}
}

func TestSweepCoversAllAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	env.signup(t, "John", "john@example.com")
	seedTask(t, env, "john's deadline", now.Add(5*time.Minute), 0)
	if err := env.auth.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	env.signup(t, "Jane", "jane@example.com")
	seedTask(t, env, "jane's deadline", now.Add(10*time.Minute), time.Second)

	notifier := &recordingNotifier{}
	reminders := NewReminderService(env.directory, notifier)

	fired, err := reminders.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if fired != 2 {
		t.Errorf("fired: got %d, want 2 (one per account)", fired)
	}
}

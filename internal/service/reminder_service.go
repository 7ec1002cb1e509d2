package service

import (
	"context"
	"errors"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// DueSoonWindow is the interval before a deadline in which a reminder
// fires exactly once.
const DueSoonWindow = 15 * time.Minute

// Notifier delivers a due-soon alert for one task.
type Notifier interface {
	DueSoon(ctx context.Context, userName string, task model.Task, due time.Time) error
}

// ReminderService scans the directory for tasks entering the due-soon
// window and fires one alert per deadline.
type ReminderService struct {
	directory *repository.DirectoryRepository
	notifier  Notifier
}

func NewReminderService(directory *repository.DirectoryRepository, notifier Notifier) *ReminderService {
	return &ReminderService{directory: directory, notifier: notifier}
}

// Sweep walks every account's tasks once. A task qualifies when it has a
// parseable deadline between 0 and 15 minutes ahead of now, is not
// completed and has not been notified yet. Qualifying tasks get one alert
// and notified=true; the directory is persisted once if anything changed.
//
// Deadlines already in the past never notify retroactively: a window that
// passed while no sweep was running is missed silently.
//
// A failed delivery leaves notified unset so the next sweep retries while
// the window is still open.
func (s *ReminderService) Sweep(ctx context.Context, now time.Time) (int, error) {
	users, err := s.directory.Load(ctx)
	if err != nil {
		return 0, err
	}

	fired := 0
	changed := false
	var delivery []error
	for ui := range users {
		for ti := range users[ui].Tasks {
			task := &users[ui].Tasks[ti]
			if task.Completed || task.Notified {
				continue
			}
			due, ok := task.DeadlineTime()
			if !ok {
				continue
			}
			left := due.Sub(now)
			if left <= 0 || left > DueSoonWindow {
				continue
			}
			if err := s.notifier.DueSoon(ctx, users[ui].Name, *task, due); err != nil {
				delivery = append(delivery, err)
				continue
			}
			task.Notified = true
			fired++
			changed = true
		}
	}

	if changed {
		if err := s.directory.Save(ctx, users); err != nil {
			return fired, err
		}
	}
	return fired, errors.Join(delivery...)
}

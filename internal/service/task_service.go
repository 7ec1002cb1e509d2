package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Filter selects which subset of the list is displayed.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterImportant Filter = "important"
)

// ParseFilter validates a filter name.
func ParseFilter(name string) (Filter, error) {
	switch Filter(name) {
	case FilterAll, FilterPending, FilterCompleted, FilterImportant:
		return Filter(name), nil
	default:
		return "", fmt.Errorf("unknown filter %q (want all, pending, completed or important)", name)
	}
}

// DeadlineChange distinguishes "keep the deadline" from "set it" and
// "clear it". Any change, clearing included, resets the notified flag.
type DeadlineChange struct {
	Set   bool
	Value string
}

// KeepDeadline leaves the task's deadline untouched.
func KeepDeadline() DeadlineChange { return DeadlineChange{} }

// SetDeadline replaces the deadline; an empty value clears it.
func SetDeadline(value string) DeadlineChange {
	return DeadlineChange{Set: true, Value: strings.TrimSpace(value)}
}

// TaskService operates on the logged-in user's embedded task list. Every
// mutation reads the list, changes it in memory and rewrites the whole
// directory blob.
type TaskService struct {
	directory *repository.DirectoryRepository
	sessions  *repository.SessionRepository
	now       func() time.Time
}

func NewTaskService(directory *repository.DirectoryRepository, sessions *repository.SessionRepository) *TaskService {
	return &TaskService{directory: directory, sessions: sessions, now: time.Now}
}

// load resolves the session to its account's task list. A session whose
// account vanished from the directory reads as an empty list.
func (s *TaskService) load(ctx context.Context) (string, []model.Task, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return "", nil, err
	}
	user, err := s.directory.FindByID(ctx, session.ID)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return session.ID, []model.Task{}, nil
	}
	return user.ID, user.Tasks, nil
}

// Add prepends a new task so the list stays most-recent-first. An empty
// title (after trimming) is a silent no-op returning (nil, nil).
func (s *TaskService) Add(ctx context.Context, title, category, deadline string, important bool) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	if category == "" {
		category = model.CategoryOther
	}

	userID, tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := model.Task{
		ID:        model.NewID(now),
		Title:     title,
		Category:  category,
		Important: important,
		Completed: false,
		CreatedAt: now.Format(time.RFC3339),
		Deadline:  strings.TrimSpace(deadline),
		Notified:  false,
	}

	tasks = append([]model.Task{task}, tasks...)
	if err := s.directory.SaveTasks(ctx, userID, tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns the subset selected by filter. Pending means not completed;
// important ignores completion entirely.
func (s *TaskService) List(ctx context.Context, filter Filter) ([]model.Task, error) {
	_, tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	switch filter {
	case FilterPending:
		return keep(tasks, func(t model.Task) bool { return !t.Completed }), nil
	case FilterCompleted:
		return keep(tasks, func(t model.Task) bool { return t.Completed }), nil
	case FilterImportant:
		return keep(tasks, func(t model.Task) bool { return t.Important }), nil
	default:
		return tasks, nil
	}
}

func keep(tasks []model.Task, pred func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// ToggleComplete flips the completed flag on the matching task. An unknown
// id is a silent no-op returning (nil, nil).
func (s *TaskService) ToggleComplete(ctx context.Context, taskID string) (*model.Task, error) {
	userID, tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].Completed = !tasks[i].Completed
			if err := s.directory.SaveTasks(ctx, userID, tasks); err != nil {
				return nil, err
			}
			return &tasks[i], nil
		}
	}
	return nil, nil
}

// Edit replaces the title and, when deadline.Set, the deadline. Any
// deadline change resets the notified flag, re-entering the same value
// included. Unknown id or empty title: silent no-op, (nil, nil).
func (s *TaskService) Edit(ctx context.Context, taskID, newTitle string, deadline DeadlineChange) (*model.Task, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return nil, nil
	}

	userID, tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == taskID {
			tasks[i].Title = newTitle
			if deadline.Set {
				tasks[i].Deadline = deadline.Value
				tasks[i].Notified = false
			}
			if err := s.directory.SaveTasks(ctx, userID, tasks); err != nil {
				return nil, err
			}
			return &tasks[i], nil
		}
	}
	return nil, nil
}

// Delete removes the matching task; the confirmation prompt is the
// caller's job. Returns false when the id matched nothing.
func (s *TaskService) Delete(ctx context.Context, taskID string) (bool, error) {
	userID, tasks, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	remaining := keep(tasks, func(t model.Task) bool { return t.ID != taskID })
	if len(remaining) == len(tasks) {
		return false, nil
	}
	if err := s.directory.SaveTasks(ctx, userID, remaining); err != nil {
		return false, err
	}
	return true, nil
}

// ClearCompleted removes every completed task and reports how many went.
// Zero completed tasks leaves the list untouched.
func (s *TaskService) ClearCompleted(ctx context.Context) (int, error) {
	userID, tasks, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	remaining := keep(tasks, func(t model.Task) bool { return !t.Completed })
	cleared := len(tasks) - len(remaining)
	if cleared == 0 {
		return 0, nil
	}
	if err := s.directory.SaveTasks(ctx, userID, remaining); err != nil {
		return 0, err
	}
	return cleared, nil
}

// Stats derives counts from the full list, whatever filter the caller is
// displaying.
func (s *TaskService) Stats(ctx context.Context) (model.Stats, error) {
	_, tasks, err := s.load(ctx)
	if err != nil {
		return model.Stats{}, err
	}
	return model.CountStats(tasks), nil
}

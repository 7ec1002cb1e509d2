package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskmaster/internal/model"
	"taskmaster/internal/notify"
	"taskmaster/internal/service"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the reminder and countdown daemon",
		Long: `Watch the task directory for approaching deadlines.

Fires one due-soon alert per deadline when it enters the 15-minute
window, via Telegram when configured and the console otherwise, and
refreshes countdown displays for the logged-in user's tasks.`,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := application

	var notifier service.Notifier
	if a.cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(a.cfg.TelegramToken, a.cfg.TelegramChatID)
		if err != nil {
			log.Warn("telegram notifier unavailable, falling back to console", "err", err)
			notifier = notify.NewConsole()
		} else {
			notifier = tg
		}
	} else {
		notifier = notify.NewConsole()
	}

	reminders := service.NewReminderService(a.directory, notifier)
	planner := service.NewReminderPlanner()

	// nextWait recomputes the wake heap from a fresh directory read, so
	// task mutations made by other invocations are picked up on every
	// cycle. The fallback interval caps the sleep when nothing is queued.
	nextWait := func(now time.Time) time.Duration {
		fallback := a.cfg.ReminderInterval()
		users, err := a.directory.Load(ctx)
		if err != nil {
			log.Error("load directory", "err", err)
			return fallback
		}
		var all []model.Task
		for _, u := range users {
			all = append(all, u.Tasks...)
		}
		planner.Reschedule(all, now)
		at, ok := planner.NextWake()
		if !ok {
			return fallback
		}
		wait := at.Sub(now)
		if wait < time.Second {
			wait = time.Second
		}
		if wait > fallback {
			wait = fallback
		}
		return wait
	}

	scheduler := service.NewSchedulerService(time.Local)
	countdowns := newCountdownBoard(a)
	if _, err := scheduler.ScheduleInterval(a.cfg.CountdownInterval(), func() {
		countdowns.refresh(ctx, time.Now())
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Info("watch started",
		"reminder_fallback", a.cfg.ReminderInterval().String(),
		"countdown_refresh", a.cfg.CountdownInterval().String(),
	)

	for {
		timer := time.NewTimer(nextWait(time.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("watch stopped")
			return nil
		case <-timer.C:
			fired, err := reminders.Sweep(ctx, time.Now())
			if err != nil {
				log.Error("reminder sweep", "err", err)
			}
			if fired > 0 {
				log.Info("reminders delivered", "count", fired)
			}
		}
	}
}

// countdownBoard tracks the logged-in user's deadlined tasks and logs
// each expiry transition once. Refreshes are display-only; no task state
// changes here.
type countdownBoard struct {
	app     *app
	mu      sync.Mutex
	expired map[string]bool
}

func newCountdownBoard(a *app) *countdownBoard {
	return &countdownBoard{app: a, expired: make(map[string]bool)}
}

func (b *countdownBoard) refresh(ctx context.Context, now time.Time) {
	session, err := b.app.sessions.Current(ctx)
	if err != nil {
		return
	}
	user, err := b.app.directory.FindByID(ctx, session.ID)
	if err != nil || user == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range user.Tasks {
		if t.Completed {
			continue
		}
		due, ok := t.DeadlineTime()
		if !ok {
			continue
		}
		remaining := service.RemainingUntil(due, now)
		if remaining.Expired {
			if !b.expired[t.ID] {
				b.expired[t.ID] = true
				log.Info("task expired", "title", t.Title, "due", due.Format("2006-01-02 15:04"))
			}
			continue
		}
		delete(b.expired, t.ID)
		log.Debug("countdown", "title", t.Title, "remaining", remaining.String())
	}
}

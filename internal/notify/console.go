package notify

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"taskmaster/internal/model"
)

// Console is the fallback alert channel when no Telegram bot is
// configured: the alert goes to stderr as a leveled log line.
type Console struct {
	logger *log.Logger
}

func NewConsole() *Console {
	return &Console{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "reminder",
		}),
	}
}

func (c *Console) DueSoon(ctx context.Context, userName string, task model.Task, due time.Time) error {
	c.logger.Warn("task due soon",
		"user", userName,
		"title", task.Title,
		"due", due.In(time.Local).Format("15:04"),
	)
	return nil
}

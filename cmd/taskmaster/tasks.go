package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskmaster/internal/model"
	"taskmaster/internal/service"
)

func addCmd() *cobra.Command {
	var category, deadline string
	var important bool

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task to the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if deadline != "" {
				if _, ok := model.ParseDeadline(deadline); !ok {
					return fmt.Errorf("invalid deadline %q (want a format like 2006-01-02T15:04)", deadline)
				}
			}
			task, err := application.tasks.Add(cmd.Context(), title, category, deadline, important)
			if err != nil {
				return err
			}
			if task == nil {
				// Empty title: silent no-op, like the original form.
				return nil
			}
			log.Info("Task added successfully!", "id", task.ID, "category", task.Category)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", model.CategoryOther, "category tag (work, personal, shopping, other)")
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline, e.g. 2025-12-31T17:00")
	cmd.Flags().BoolVarP(&important, "important", "i", false, "mark the new task important")

	return cmd
}

func listCmd() *cobra.Command {
	var filterName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := service.ParseFilter(filterName)
			if err != nil {
				return err
			}
			tasks, err := application.tasks.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), sectionTitle(filter))
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "  (no tasks)")
				return nil
			}
			now := time.Now()
			for _, t := range tasks {
				fmt.Fprintln(cmd.OutOrStdout(), renderTask(t, now))
			}

			stats, err := application.tasks.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d total · %d completed · %d pending\n",
				stats.Total, stats.Completed, stats.Pending)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filterName, "filter", "f", string(service.FilterAll), "all, pending, completed or important")

	return cmd
}

func sectionTitle(filter service.Filter) string {
	switch filter {
	case service.FilterPending:
		return "Pending Tasks"
	case service.FilterCompleted:
		return "Completed Tasks"
	case service.FilterImportant:
		return "Important Tasks"
	default:
		return "All Tasks"
	}
}

// renderTask builds one display line: checkbox, id, title, tags and an
// optional live countdown.
func renderTask(t model.Task, now time.Time) string {
	var b strings.Builder

	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	b.WriteString(fmt.Sprintf("  %s %s  %s", box, t.ID, t.Title))

	b.WriteString(fmt.Sprintf("  (%s)", t.Category))
	if t.Important {
		b.WriteString("  ★ important")
	}
	if due, ok := t.DeadlineTime(); ok {
		b.WriteString(fmt.Sprintf("  ⏳ due %s · %s",
			due.Format("2006-01-02 15:04"),
			service.RemainingUntil(due, now)))
	}
	return b.String()
}

func completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [id]",
		Short: "Toggle a task between completed and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := application.tasks.ToggleComplete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if task == nil {
				// Unknown id: silently ignored.
				return nil
			}
			if task.Completed {
				log.Info("Task completed!", "title", task.Title)
			} else {
				log.Info("Task marked as pending", "title", task.Title)
			}
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	var title, deadline string
	var clearDeadline bool

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a task's title and deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			change := service.KeepDeadline()
			switch {
			case clearDeadline:
				change = service.SetDeadline("")
			case cmd.Flags().Changed("deadline"):
				if deadline != "" {
					if _, ok := model.ParseDeadline(deadline); !ok {
						return fmt.Errorf("invalid deadline %q (want a format like 2006-01-02T15:04)", deadline)
					}
				}
				change = service.SetDeadline(deadline)
			}

			task, err := application.tasks.Edit(cmd.Context(), args[0], title, change)
			if err != nil {
				return err
			}
			if task == nil {
				// Unknown id or empty title: silently ignored.
				return nil
			}
			log.Info("Task updated!", "title", task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "new deadline (resets the reminder)")
	cmd.Flags().BoolVar(&clearDeadline, "clear-deadline", false, "remove the deadline (resets the reminder)")

	return cmd
}

func deleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, "Are you sure you want to delete this task?", yes)
			if err != nil || !ok {
				return err
			}
			deleted, err := application.tasks.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if deleted {
				log.Info("Task deleted!")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all completed tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := application.tasks.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if stats.Completed == 0 {
				log.Info("No completed tasks to clear")
				return nil
			}
			prompt := fmt.Sprintf("Are you sure you want to delete %d completed task(s)?", stats.Completed)
			ok, err := confirm(cmd, prompt, yes)
			if err != nil || !ok {
				return err
			}
			cleared, err := application.tasks.ClearCompleted(cmd.Context())
			if err != nil {
				return err
			}
			log.Info(fmt.Sprintf("%d completed task(s) deleted!", cleared))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full task list as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			rows, err := application.tasks.ExportCSV(cmd.Context(), &buf)
			if err != nil {
				return err
			}
			if rows == 0 {
				log.Info("No tasks to export")
				return nil
			}

			if output == "-" {
				_, err = buf.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			log.Info("Export written", "file", output, "tasks", rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "TaskMaster_Export.csv", "output file, or - for stdout")

	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := application.tasks.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total:     %d\n", stats.Total)
			fmt.Fprintf(cmd.OutOrStdout(), "completed: %d\n", stats.Completed)
			fmt.Fprintf(cmd.OutOrStdout(), "pending:   %d\n", stats.Pending)
			return nil
		},
	}
}

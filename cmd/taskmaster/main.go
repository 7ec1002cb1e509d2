package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"taskmaster/internal/config"
	"taskmaster/internal/repository"
	"taskmaster/internal/service"
	"taskmaster/internal/storage"
)

var Version = "dev"

// app is the wired-up application shared by all commands.
type app struct {
	cfg       config.Config
	db        *gorm.DB
	directory *repository.DirectoryRepository
	sessions  *repository.SessionRepository
	auth      *service.AuthService
	tasks     *service.TaskService
}

var application *app

func newApp(cfg config.Config) (*app, error) {
	db, err := storage.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	store := storage.NewStore(db)
	directory := repository.NewDirectoryRepository(store)
	sessions := repository.NewSessionRepository(store, cfg.SessionFile)

	return &app{
		cfg:       cfg,
		db:        db,
		directory: directory,
		sessions:  sessions,
		auth:      service.NewAuthService(directory, sessions),
		tasks:     service.NewTaskService(directory, sessions),
	}, nil
}

func (a *app) close() {
	if a == nil || a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "taskmaster",
		Short:         "TaskMaster - local personal task manager",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			application, err = newApp(cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			application.close()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	rootCmd.AddCommand(signupCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(completeCmd())
	rootCmd.AddCommand(editCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(watchCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError renders validation failures field by field and maps the
// missing-session case to a pointer at login; everything else is printed
// as-is.
func printError(err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		for field, msg := range ve.Fields {
			log.Error(msg, "field", field)
		}
	case errors.Is(err, repository.ErrNoSession):
		log.Error("You are not logged in. Run 'taskmaster login' first.")
	default:
		log.Error(err.Error())
	}
}

// confirm gates destructive actions. The yes flag skips the prompt.
func confirm(cmd *cobra.Command, prompt string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

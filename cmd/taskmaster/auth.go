package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskmaster/internal/service"
)

func signupCmd() *cobra.Command {
	var name, email, password, confirm string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if session, err := application.auth.CurrentUser(cmd.Context()); err == nil {
				log.Info("Already logged in. Run 'taskmaster logout' first.", "email", session.Email)
				return nil
			}
			user, err := application.auth.Signup(cmd.Context(), name, email, password, confirm)
			if err != nil {
				return err
			}
			log.Info("Account created successfully!", "id", user.ID, "email", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (min 6 characters)")
	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation")

	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if session, err := application.auth.CurrentUser(cmd.Context()); err == nil {
				log.Info("Already logged in. Run 'taskmaster logout' first.", "email", session.Email)
				return nil
			}
			user, err := application.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			log.Info("Login successful!", "name", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func logoutCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := application.auth.CurrentUser(cmd.Context()); err != nil {
				return err
			}
			ok, err := confirm(cmd, "Are you sure you want to logout?", yes)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := application.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			log.Info("Logged out.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", session.Name, session.Email)
			if session.Phone != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "phone: %s\n", session.Phone)
			}
			if session.DOB != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "dob:   %s\n", session.DOB)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "since: %s\n", session.CreatedAt)
			return nil
		},
	}
}

func profileCmd() *cobra.Command {
	var input struct {
		name            string
		email           string
		phone           string
		dob             string
		currentPassword string
		newPassword     string
		confirmNew      string
	}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := application.auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			// Unset fields keep their current values, like the prefilled
			// profile form.
			if !cmd.Flags().Changed("name") {
				input.name = session.Name
			}
			if !cmd.Flags().Changed("email") {
				input.email = session.Email
			}
			if !cmd.Flags().Changed("phone") {
				input.phone = session.Phone
			}
			if !cmd.Flags().Changed("dob") {
				input.dob = session.DOB
			}

			user, err := application.auth.UpdateProfile(cmd.Context(), service.ProfileInput{
				Name:               input.name,
				Email:              input.email,
				Phone:              input.phone,
				DOB:                input.dob,
				CurrentPassword:    input.currentPassword,
				NewPassword:        input.newPassword,
				ConfirmNewPassword: input.confirmNew,
			})
			if err != nil {
				return err
			}
			log.Info("Profile updated successfully!", "name", user.Name, "email", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.name, "name", "", "display name")
	cmd.Flags().StringVar(&input.email, "email", "", "email address")
	cmd.Flags().StringVar(&input.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&input.dob, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&input.currentPassword, "current-password", "", "current password (required to change password)")
	cmd.Flags().StringVar(&input.newPassword, "new-password", "", "new password")
	cmd.Flags().StringVar(&input.confirmNew, "confirm-new-password", "", "new password confirmation")

	return cmd
}

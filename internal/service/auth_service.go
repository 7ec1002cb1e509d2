package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Field names used in validation errors. They match the persisted JSON
// field names so callers can address inputs consistently.
const (
	FieldName               = "name"
	FieldEmail              = "email"
	FieldPassword           = "password"
	FieldConfirmPassword    = "confirmPassword"
	FieldCurrentPassword    = "currentPassword"
	FieldNewPassword        = "newPassword"
	FieldConfirmNewPassword = "confirmNewPassword"
)

// ValidationError carries field-scoped messages for user-correctable input
// failures. Every failing field is reported, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, taken := e.Fields[field]; !taken {
		e.Fields[field] = message
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService owns the account directory and the login session.
type AuthService struct {
	directory *repository.DirectoryRepository
	sessions  *repository.SessionRepository
	now       func() time.Time
}

func NewAuthService(directory *repository.DirectoryRepository, sessions *repository.SessionRepository) *AuthService {
	return &AuthService{directory: directory, sessions: sessions, now: time.Now}
}

// Signup validates the form, appends a new account with an empty task list
// and logs it in. A duplicate email always fails with the duplicate-email
// message, whatever the other fields look like.
func (s *AuthService) Signup(ctx context.Context, name, email, password, confirm string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	ve := &ValidationError{}
	if len(name) < 2 {
		ve.add(FieldName, "Name must be at least 2 characters long")
	}
	switch {
	case email == "":
		ve.add(FieldEmail, "Email is required")
	case !emailPattern.MatchString(email):
		ve.add(FieldEmail, "Please enter a valid email address")
	default:
		existing, err := s.directory.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			ve.add(FieldEmail, "An account with this email already exists")
		}
	}
	switch {
	case password == "":
		ve.add(FieldPassword, "Password is required")
	case len(password) < 6:
		ve.add(FieldPassword, "Password must be at least 6 characters long")
	}
	switch {
	case confirm == "":
		ve.add(FieldConfirmPassword, "Please confirm your password")
	case password != confirm:
		ve.add(FieldConfirmPassword, "Passwords do not match")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	user := model.NewUser(name, email, password, s.now())
	if err := s.directory.Append(ctx, user); err != nil {
		return nil, err
	}
	if err := s.sessions.Establish(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks the credentials against the directory and establishes a
// session. Passwords are compared exactly, case included; a mismatch only
// ever says "incorrect password".
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)

	ve := &ValidationError{}
	switch {
	case email == "":
		ve.add(FieldEmail, "Email is required")
	case !emailPattern.MatchString(email):
		ve.add(FieldEmail, "Please enter a valid email address")
	}
	if password == "" {
		ve.add(FieldPassword, "Password is required")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		ve.add(FieldEmail, "No account found with this email address")
		return nil, ve
	}
	if user.Password != password {
		ve.add(FieldPassword, "Incorrect password")
		return nil, ve
	}

	if err := s.sessions.Establish(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// CurrentUser returns the active session record, or repository.ErrNoSession.
func (s *AuthService) CurrentUser(ctx context.Context) (*model.Session, error) {
	return s.sessions.Current(ctx)
}

// Logout clears both session artifacts. The destructive-action prompt is
// the caller's job.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// ProfileInput is the profile update form. Password fields are optional:
// leaving NewPassword empty keeps the current password.
type ProfileInput struct {
	Name               string
	Email              string
	Phone              string
	DOB                string
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

// UpdateProfile rewrites the logged-in account and refreshes the session
// record. A password change is gated on the correct current password.
func (s *AuthService) UpdateProfile(ctx context.Context, input ProfileInput) (*model.User, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)

	ve := &ValidationError{}
	if name == "" {
		ve.add(FieldName, "Name is required")
	}
	if email == "" {
		ve.add(FieldEmail, "Email is required")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	user, err := s.directory.FindByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("account %s not found", session.ID)
	}

	if input.NewPassword != "" {
		switch {
		case input.CurrentPassword == "":
			ve.add(FieldCurrentPassword, "Current password is required to change password")
		case user.Password != input.CurrentPassword:
			ve.add(FieldCurrentPassword, "Current password is incorrect")
		}
		if len(input.NewPassword) < 6 {
			ve.add(FieldNewPassword, "New password must be at least 6 characters")
		} else if input.NewPassword != input.ConfirmNewPassword {
			ve.add(FieldConfirmNewPassword, "New passwords do not match")
		}
		if err := ve.orNil(); err != nil {
			return nil, err
		}
		user.Password = input.NewPassword
	}

	user.Name = name
	user.Email = email
	user.Phone = strings.TrimSpace(input.Phone)
	user.DOB = input.DOB

	if err := s.directory.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	if err := s.sessions.Refresh(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

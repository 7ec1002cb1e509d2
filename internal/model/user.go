package model

import "time"

// User is one account in the persisted directory. The password is stored
// as entered; login is an exact string compare. Accounts are created at
// signup, mutated by profile updates and task saves, never deleted.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	DOB       string `json:"dob,omitempty"`
	CreatedAt string `json:"createdAt"`
	Tasks     []Task `json:"tasks"`
}

// Session is the password-stripped account snapshot marking who is logged
// in. It is only meaningful together with the authenticated marker.
type Session struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	DOB       string `json:"dob"`
	CreatedAt string `json:"createdAt"`
}

// Session returns the snapshot stored under the current_user key.
func (u User) Session() Session {
	return Session{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		DOB:       u.DOB,
		CreatedAt: u.CreatedAt,
	}
}

// NewUser builds a fresh account with an empty task list.
func NewUser(name, email, password string, now time.Time) User {
	return User{
		ID:        NewID(now),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: now.Format(time.RFC3339),
		Tasks:     []Task{},
	}
}

package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidID     = errors.New("user id must be positive")
	ErrEmptyUsername = errors.New("username is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
)

// User is the entity managed by the user service, identified by ID.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

// NewUser builds a user ensuring identity and username invariants.
func NewUser(id int64, username string) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	user := &User{ID: id}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// SetEmail stores an optional email address.
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// SetPassword hashes the plain password with bcrypt.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if len(password) < 4 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strings.TrimSpace(password))) == nil
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if u.ID <= 0 {
		return ErrInvalidID
	}
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	return u.SetEmail(u.Email)
}

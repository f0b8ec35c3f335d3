package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// bcrypt rejects inputs longer than 72 bytes.
const maxPasswordLength = 72

// User represents a registered identity of the trading application.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // Plaintext password, used only during registration
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsVerified     bool      `json:"is_verified"`
	RoleID         *int64    `json:"role_id,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// NewUser creates a new User with the given registration fields.
// It generates a new UUID for the user ID, marks the account active,
// and sets the registration timestamp. Returns an error if validation fails.
//
// NOTE: The plaintext password is carried only until the store hashes it;
// the caller is responsible for hashing before persistence.
func NewUser(email, username, name, password string, roleID *int64) (*User, error) {
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		Name:         name,
		Password:     password,
		IsActive:     true,
		IsSuperuser:  false,
		IsVerified:   false,
		RoleID:       roleID,
		RegisteredAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Password != "" {
		if len(u.Password) > maxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format: a single
// "@" with a dotted domain part after it. Request payloads go through the
// stricter validator tags; this is a last line of defense for entities
// constructed in code.
func validateEmailFormat(email string) bool {
	atIndex := strings.IndexByte(email, '@')
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	dotIndex := strings.IndexByte(domainPart, '.')
	if dotIndex <= 0 || dotIndex == len(domainPart)-1 {
		return false
	}

	return true
}

package domain

import "errors"

// ErrEmptyRoleName is returned when a role is created without a name.
var ErrEmptyRoleName = errors.New("role name cannot be empty")

// Role groups users under a named permission set. The permission blob is
// free-form key/value data stored as JSON; its schema is not fixed.
type Role struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Permissions map[string]any `json:"permissions,omitempty"`
}

// Validate checks if the Role has valid data.
func (r *Role) Validate() error {
	if r.Name == "" {
		return ErrEmptyRoleName
	}
	return nil
}

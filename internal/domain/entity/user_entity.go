package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the user domain.
// ID is zero until the storage layer assigns one.
//
// Email and Username are globally unique. The authoritative guarantee is the
// pair of unique indexes in storage; application-level checks are best-effort.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Phone     *string   `json:"phone"`
	Website   *string   `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser builds a User and enforces the structural invariants:
// name/email/username must not be blank, email must contain '@'.
// Stricter email format rules belong to the application layer.
//
// The postgres adapter hydrates entities straight from trusted rows and does
// not pass through here; NewUser is for callers constructing a User from
// unvalidated field values outside the repository.
func NewUser(id int64, name, email, username string, phone, website *string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("Name is required")
	}
	if strings.TrimSpace(email) == "" {
		return nil, NewValidationError("Email is required")
	}
	if strings.TrimSpace(username) == "" {
		return nil, NewValidationError("Username is required")
	}
	if !strings.Contains(email, "@") {
		return nil, NewValidationError("Invalid email format")
	}
	return &User{
		ID:       id,
		Name:     name,
		Email:    email,
		Username: username,
		Phone:    phone,
		Website:  website,
	}, nil
}

// CreateUserDTO carries input for user creation. The id is assigned by storage.
type CreateUserDTO struct {
	Name     string
	Email    string
	Username string
	Phone    *string
	Website  *string
}

// UpdateUserDTO carries a partial update. A nil field means "leave unchanged";
// a non-nil field, including a pointer to the empty string, means "apply this value".
type UpdateUserDTO struct {
	ID       int64
	Name     *string
	Email    *string
	Username *string
	Phone    *string
	Website  *string
}

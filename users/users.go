package users

import (
	"strconv"

	"github.com/Paul200287/GradeTracker/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// RoleType is the backend role of a console user
type RoleType string

const (
	RoleSuperuser RoleType = "Superuser" // Full access, including user management
	RoleEditor    RoleType = "Editor"    // Can create and edit subjects
	RoleViewer    RoleType = "Viewer"    // Read-only
)

// User is the profile the backend returns for a console user. A copy is cached
// client-side as the user snapshot and may be stale.
type User struct {
	ID        int             `json:"id,omitempty"`        // Backend user id, zero when unknown
	Username  string          `json:"username,omitempty"`  // Unique username
	Email     string          `json:"email,omitempty"`     // User's email address
	Role      RoleType        `json:"role,omitempty"`      // Backend role
	CreatedAt utils.Timestamp `json:"created_at,omitzero"` // When the account was created
	UpdatedAt utils.Timestamp `json:"updated_at,omitzero"` // Last profile change, zero if never
}

// HasID reports whether the snapshot carries a backend user id.
func (u *User) HasID() bool {
	return u != nil && u.ID > 0
}

// SubjectID is the identifier put into the server session for this user.
func (u *User) SubjectID() string {
	if u.HasID() {
		return strconv.Itoa(u.ID)
	}
	return u.Email
}

// DisplayName prefers the username and falls back to the email.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

func (u *User) IsSuperuser() bool {
	return u != nil && u.Role == RoleSuperuser
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

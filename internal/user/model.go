package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, apperror.KindNotFound, "user not found")
	ErrUsernameTaken      = apperror.New(http.StatusConflict, apperror.KindDuplicate, "username already used")
	ErrEmailTaken         = apperror.New(http.StatusConflict, apperror.KindDuplicate, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, apperror.KindUnauthorized, "invalid username or password")
	ErrInvalidEmail       = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "invalid email address")
	ErrInvalidPhone       = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "invalid phone number")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "password is too short")
	ErrMissingFields      = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "required fields are missing")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "invalid role")
)

// Role is the account type of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleOrg   Role = "org"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrg, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	ID               string // UUID
	Username         string
	Email            string
	PasswordHash     string
	Role             Role
	FirstName        string
	LastName         string
	MiddleName       string
	OrganizationName string
	Phone            string
	Gender           string
	IsConfirmed      bool
	CreatedAt        time.Time
	LastLoginAt      *time.Time
}

// DisplayName is the name shown next to the user's bookings.
func (u *User) DisplayName() string {
	if u.Role == RoleOrg && u.OrganizationName != "" {
		return u.OrganizationName
	}
	name := strings.TrimSpace(strings.Join([]string{u.LastName, u.FirstName}, " "))
	if name == "" {
		return u.Username
	}
	return name
}

// Identity is the part of a user the booking rules look at.
type Identity struct {
	UserID      string
	Role        Role
	IsConfirmed bool
}

// IdentityOf extracts the Identity of u.
func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Role: u.Role, IsConfirmed: u.IsConfirmed}
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// MayReserve reports whether the identity may create bookings.
// Individual accounts need an administrator's confirmation first.
func (i Identity) MayReserve() bool {
	return i.IsConfirmed || i.Role == RoleOrg || i.Role == RoleAdmin
}

// Filter defines filter options for listing users.
type Filter struct {
	Keyword     string
	Role        Role
	IsConfirmed *bool // nil means any

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

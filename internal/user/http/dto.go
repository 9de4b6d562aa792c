package http

import (
	"time"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

// ListUsersRequest defines query parameters for listing users.
type ListUsersRequest struct {
	request.ListParams
	Q           string `form:"q"`
	Role        string `form:"role" binding:"omitempty,oneof=user org admin"`
	IsConfirmed *bool  `form:"is_confirmed"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=username email created_at"`
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	DisplayName      string     `json:"display_name"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	MiddleName       string     `json:"middle_name,omitempty"`
	OrganizationName string     `json:"organization_name,omitempty"`
	Phone            string     `json:"phone"`
	Gender           string     `json:"gender,omitempty"`
	IsConfirmed      bool       `json:"is_confirmed"`
	CreatedAt        time.Time  `json:"created_at"`
	LastLoginAt      *time.Time `json:"last_login_at"`
}

// UserTag is a brief representation of a user.
type UserTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             string(u.Role),
		DisplayName:      u.DisplayName(),
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		MiddleName:       u.MiddleName,
		OrganizationName: u.OrganizationName,
		Phone:            u.Phone,
		Gender:           u.Gender,
		IsConfirmed:      u.IsConfirmed,
		CreatedAt:        u.CreatedAt,
		LastLoginAt:      u.LastLoginAt,
	}
}

// RegisterRequest defines the payload for registering an individual account.
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	Password   string `json:"password" binding:"required,min=6"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required,phone"`
	FirstName  string `json:"first_name" binding:"required,max=50"`
	LastName   string `json:"last_name" binding:"required,max=50"`
	MiddleName string `json:"middle_name" binding:"omitempty,max=50"`
	Gender     string `json:"gender" binding:"required,oneof=male female other"`
}

// RegisterOrgRequest defines the payload for registering an organization account.
type RegisterOrgRequest struct {
	Username         string `json:"username" binding:"required,min=3,max=50"`
	Password         string `json:"password" binding:"required,min=6"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required,phone"`
	OrganizationName string `json:"organization_name" binding:"required,max=150"`
	ContactName      string `json:"contact_name" binding:"required,max=50"`
}

// LoginRequest defines the payload for login; Login may be a username or e-mail.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the token and user info.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// MeResponse returns the current user info.
type MeResponse struct {
	User UserResponse `json:"user"`
}

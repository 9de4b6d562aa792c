package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/pool-booking-backend/internal/auth"
	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/cache"
)

// RegisterRequest carries the registration form of an individual or organization account.
type RegisterRequest struct {
	Username         string
	Email            string
	Password         string
	Role             Role // RoleUser or RoleOrg; empty means RoleUser
	FirstName        string
	LastName         string
	MiddleName       string
	OrganizationName string
	Phone            string
	Gender           string
}

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, login, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Identity(ctx context.Context, id string) (Identity, error)
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	Confirm(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
	EnsureAdmin(ctx context.Context, username, password string) (bool, error)
}

type service struct {
	repo        Repository
	hasher      auth.PasswordHasher
	invalidator cache.Invalidator

	minPasswordLength int
}

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, invalidator cache.Invalidator) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		invalidator:       invalidator,
		minPasswordLength: 6,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Role == "" {
		req.Role = RoleUser
	}
	if req.Role != RoleUser && req.Role != RoleOrg {
		return nil, ErrInvalidRole
	}

	u := &User{
		Username:         strings.TrimSpace(req.Username),
		Email:            normalizeEmail(req.Email),
		Role:             req.Role,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		MiddleName:       strings.TrimSpace(req.MiddleName),
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		Phone:            strings.TrimSpace(req.Phone),
		Gender:           strings.TrimSpace(req.Gender),
		// Organization accounts are trusted on sign-up.
		IsConfirmed: req.Role == RoleOrg,
	}

	if u.Username == "" || u.Email == "" || u.FirstName == "" || u.Phone == "" {
		return nil, ErrMissingFields
	}
	if u.Role == RoleUser && (u.LastName == "" || u.Gender == "") {
		return nil, ErrMissingFields
	}
	if u.Role == RoleOrg && u.OrganizationName == "" {
		return nil, ErrMissingFields
	}
	if !ValidPhone(u.Phone) {
		return nil, ErrInvalidPhone
	}
	if !ValidEmail(u.Email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < s.minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = hash

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user registered")
	return u, nil
}

// Login accepts either the username or the e-mail address as login.
func (s *service) Login(ctx context.Context, login, password string) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		u   *User
		err error
	)
	if strings.Contains(login, "@") {
		u, err = s.repo.GetByEmail(ctx, normalizeEmail(login))
	} else {
		u, err = s.repo.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed timestamp update does not fail the login.
	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("failed to update last login")
	} else {
		u.LastLoginAt = &now
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Identity(ctx context.Context, id string) (Identity, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Identity{}, err
	}
	return IdentityOf(u), nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Confirm(ctx context.Context, id string) (*User, error) {
	if err := s.repo.SetConfirmed(ctx, id, true); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes the account together with its bookings and groups.
func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidator.InvalidateAll(ctx)
	return nil
}

// EnsureAdmin creates the administrator account unless one with that username exists.
// It reports whether a new account was created.
func (s *service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.repo.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
	if password == "" {
		return false, fmt.Errorf("admin %q is missing and no password is configured", username)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		Username:     username,
		Email:        username + "@admin.local",
		PasswordHash: hash,
		Role:         RoleAdmin,
		FirstName:    "Administrator",
		IsConfirmed:  true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// Another instance may have seeded it first.
		if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

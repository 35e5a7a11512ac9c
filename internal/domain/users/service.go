package users

import (
	"context"
	"errors"

	"github.com/gatherly/server/internal/auth"
	"github.com/gatherly/server/internal/domain/ids"
)

// fallbackPassword is applied when an admin creates a user without a
// password. Preserved from the original contract; callers must not rely
// on admin create for validation.
const fallbackPassword = "password"

type Service struct {
	repo   Repository
	tokens *auth.JWTManager
}

func NewService(repo Repository, tokens *auth.JWTManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

type RegisterParams struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// Register creates a self-service account with a single role. ADMIN cannot
// be self-assigned.
func (s *Service) Register(ctx context.Context, params RegisterParams) error {
	if params.Email == "" || params.Password == "" || params.Name == "" || params.Role == "" {
		return ValidationError{Message: "Missing data"}
	}

	role, ok := auth.ParseRole(params.Role)
	if !ok || role == auth.RoleAdmin {
		return ValidationError{Message: "Invalid role"}
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return err
	}

	id, err := ids.NewULID()
	if err != nil {
		return err
	}

	_, err = s.repo.Create(ctx, CreateParams{
		ID:           id,
		Email:        params.Email,
		Name:         params.Name,
		Roles:        auth.RoleSet{role},
		PasswordHash: hash,
	})
	if errors.Is(err, ErrEmailTaken) {
		return ValidationError{Message: "Email already in use"}
	}
	return err
}

// Login verifies credentials and issues a signed, time-bound bearer token
// carrying the user's identifier and roles.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ValidationError{Message: "Email and password are required"}
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Generate(user.ID, user.Roles)
}

// Profile returns the caller's own full profile.
func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) List(ctx context.Context, actor auth.Actor) ([]User, error) {
	if !actor.Roles.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (*User, error) {
	if !actor.Roles.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

type AdminCreateParams struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

// AdminCreate creates a user on behalf of an admin. Missing fields fall
// back to lax defaults (empty email/name, literal fallback password,
// ROLE_USER) matching the historical contract; role values themselves are
// still checked against the enum.
func (s *Service) AdminCreate(ctx context.Context, actor auth.Actor, params AdminCreateParams) (*User, error) {
	if !actor.Roles.IsAdmin() {
		return nil, ErrForbidden
	}

	roles := auth.RoleSet{auth.RoleUser}
	if len(params.Roles) > 0 {
		parsed, ok := auth.ParseRoleSet(params.Roles)
		if !ok {
			return nil, ValidationError{Message: "Invalid role"}
		}
		roles = parsed
	}

	password := params.Password
	if password == "" {
		password = fallbackPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	id, err := ids.NewULID()
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, CreateParams{
		ID:           id,
		Email:        params.Email,
		Name:         params.Name,
		Roles:        roles,
		PasswordHash: hash,
	})
	if errors.Is(err, ErrEmailTaken) {
		return nil, ValidationError{Message: "Email already in use"}
	}
	return user, err
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.Roles.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

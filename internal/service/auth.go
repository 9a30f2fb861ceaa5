package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/college-events/internal/auth"
	"github.com/Shivanand-hulikatti/college-events/internal/model"
	"github.com/Shivanand-hulikatti/college-events/internal/repository"
	"github.com/Shivanand-hulikatti/college-events/internal/validator"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(u *model.User) (string, error)
}

// AuthService handles accounts and credentials.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	log    zerolog.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserStore, tokens TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log.With().Str("component", "auth").Logger()}
}

// Register creates a regular user account and signs them in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.College = strings.TrimSpace(req.College)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validator.Validate(ctx, req); err != nil {
		return nil, validationErr("%s", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	u := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		College:      req.College,
		Phone:        req.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user already exists with this email", ErrConflict)
		}
		return nil, translate(err, "create user")
	}
	s.log.Info().Str("user_id", u.ID).Msg("user registered")
	return s.signIn(u)
}

// Login exchanges credentials for a token. Unknown emails and wrong
// passwords are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	if err := validator.Validate(ctx, req); err != nil {
		return nil, validationErr("%s", err)
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return nil, translate(err, "find user")
	}
	ok, err := auth.CheckPassword(u.PasswordHash, req.Password)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return s.signIn(u)
}

// Me returns the caller's account.
func (s *AuthService) Me(ctx context.Context, who model.Identity) (*model.User, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	u, err := s.users.GetByID(ctx, who.UserID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return u, nil
}

// UpdateProfile changes the caller's name, college or phone.
func (s *AuthService) UpdateProfile(ctx context.Context, who model.Identity, req model.UpdateProfileRequest) (*model.User, error) {
	if who.IsAnonymous() {
		return nil, fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	if err := validator.Validate(ctx, req); err != nil {
		return nil, validationErr("%s", err)
	}
	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationErr("name must not be empty")
		}
		updates["name"] = name
	}
	if req.College != nil {
		updates["college"] = strings.TrimSpace(*req.College)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	u, err := s.users.Update(ctx, who.UserID, updates)
	if err != nil {
		return nil, translate(err, "user")
	}
	return u, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, who model.Identity, req model.ChangePasswordRequest) error {
	if who.IsAnonymous() {
		return fmt.Errorf("%w: authentication required", ErrUnauthorized)
	}
	if err := validator.Validate(ctx, req); err != nil {
		return validationErr("%s", err)
	}
	u, err := s.users.GetByID(ctx, who.UserID)
	if err != nil {
		return translate(err, "user")
	}
	ok, err := auth.CheckPassword(u.PasswordHash, req.CurrentPassword)
	if err != nil || !ok {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDependency, err)
	}
	_, err = s.users.Update(ctx, u.ID, map[string]any{"password_hash": hash})
	return translate(err, "user")
}

// Promote grants the admin role to another user.
func (s *AuthService) Promote(ctx context.Context, who model.Identity, userID string) (*model.User, error) {
	if !who.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can promote users", ErrForbidden)
	}
	u, err := s.users.Update(ctx, userID, map[string]any{"role": model.RoleAdmin})
	if err != nil {
		return nil, translate(err, "user")
	}
	s.log.Info().Str("user_id", userID).Str("actor_id", who.UserID).Msg("user promoted to admin")
	return u, nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes it if the
// email is already registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Role == model.RoleAdmin {
			return u, nil
		}
		u, err = s.users.Update(ctx, u.ID, map[string]any{"role": model.RoleAdmin})
		if err != nil {
			return nil, translate(err, "promote admin")
		}
		s.log.Info().Str("user_id", u.ID).Msg("bootstrap account promoted to admin")
		return u, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, translate(err, "find admin")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	u = &model.User{Name: "Administrator", Email: email, PasswordHash: hash, Role: model.RoleAdmin}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, translate(err, "create admin")
	}
	s.log.Info().Str("user_id", u.ID).Msg("admin account created")
	return u, nil
}

func (s *AuthService) signIn(u *model.User) (*model.AuthResult, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}
	return &model.AuthResult{Token: token, User: u}, nil
}

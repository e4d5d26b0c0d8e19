package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go-artisan-pricing/internal/apperr"
	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/internal/repository"
	"go-artisan-pricing/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrSessionExpired     = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Authenticate(ctx context.Context, claims *jwt.Claims) (*model.User, error)
	ChangePassword(ctx context.Context, ownerID uuid.UUID, oldPassword, newPassword string) (*LoginResponse, error)
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,max=255"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	configs  repository.ConfigurationRepository
	tokens   *jwt.Manager
	log      *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, configs repository.ConfigurationRepository, tokens *jwt.Manager, log *slog.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		configs:  configs,
		tokens:   tokens,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an owner account with the default pricing configuration
// and signs it in.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validate(&req); err != nil {
		return nil, err
	}

	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		Email:        req.Email,
		FullName:     req.FullName,
		IsActive:     true,
		TokenVersion: uuid.New().String(),
		LastLoginAt:  &now,
	}
	user.ID = uuid.New()
	user.Touch(user.ID.String())
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if _, err := s.configs.GetOrCreate(ctx, user.ID); err != nil {
		return nil, err
	}

	s.log.Info("owner registered", "owner_id", user.ID)
	return s.issue(user)
}

// Login checks the credentials and starts a new session. Tokens issued
// before it stop working.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.TokenVersion = uuid.New().String()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("owner logged in", "owner_id", user.ID)
	return s.issue(user)
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.Authenticate(ctx, claims)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{User: user.ToResponse()}, nil
}

// Authenticate resolves the claims of a valid token to an active owner
// holding the current session.
func (s *authService) Authenticate(ctx context.Context, claims *jwt.Claims) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, claims.OwnerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionExpired
	}
	return user, nil
}

// ChangePassword replaces the password and rotates the session, returning
// a fresh token for the caller.
func (s *authService) ChangePassword(ctx context.Context, ownerID uuid.UUID, oldPassword, newPassword string) (*LoginResponse, error) {
	if len(newPassword) < 6 {
		return nil, apperr.Invalid("new_password", "must be at least 6 characters")
	}

	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(oldPassword) {
		return nil, ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return nil, err
	}

	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion); err != nil {
		return nil, err
	}

	s.log.Info("owner changed password", "owner_id", user.ID)
	return s.issue(user)
}

func (s *authService) issue(user *model.User) (*LoginResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.FullName, user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"carefund/internal/auth"
	"carefund/internal/config"
	"carefund/internal/domain"
	"carefund/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWTConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterRequest contains the parameters for registering an account.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

// Register creates a new account and returns a signed access token.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, ErrMissingEmail
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleHospital {
		return nil, ErrInvalidRole
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := auth.GenerateAccessToken(s.jwtCfg, user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateAccessToken(s.jwtCfg, user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"numbertalk/internal/auth"
	"numbertalk/internal/models"
	"numbertalk/internal/observability"
	"numbertalk/internal/repository"
	"numbertalk/internal/validation"
)

const invalidCredentials = "Invalid username or password."

type UserService struct {
	userRepo    repository.UserRepository
	tokens      *auth.TokenManager
	revocations *auth.RevocationStore
	bcryptCost  int
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  models.AuthenticatedUser `json:"user"`
	Token string                   `json:"token"`
}

func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenManager,
	revocations *auth.RevocationStore,
	bcryptCost int,
) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:    userRepo,
		tokens:      tokens,
		revocations: revocations,
		bcryptCost:  bcryptCost,
	}
}

func (s *UserService) Register(ctx context.Context, in Credentials) (*AuthResult, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username is already taken.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, models.NewValidationError(err.Error())
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{Username: in.Username, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, in Credentials) (*AuthResult, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		observability.AuthFailures.WithLabelValues("unknown_user").Inc()
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		observability.AuthFailures.WithLabelValues("bad_password").Inc()
		return nil, models.NewUnauthorizedError(invalidCredentials)
	}

	return s.issue(user)
}

// Authenticate verifies a bearer token and its revocation state.
func (s *UserService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		reason := "invalid_token"
		msg := "Invalid or expired token"
		if errors.Is(err, auth.ErrExpiredToken) {
			reason = "expired_token"
		}
		observability.AuthFailures.WithLabelValues(reason).Inc()
		return nil, models.NewUnauthorizedError(msg)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err == nil && revoked {
		observability.AuthFailures.WithLabelValues("revoked_token").Inc()
		return nil, models.NewUnauthorizedError("Token has been revoked")
	}
	return claims, nil
}

// Logout revokes the presented token until it would have expired.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.revocations.Revoke(ctx, claims.ID, claims.Expiry()); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Me returns the stored profile of the token subject.
func (s *UserService) Me(ctx context.Context, userID string) (*models.AuthenticatedUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, _, err := s.tokens.Issue(user.Actor())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &AuthResult{User: user.Public(), Token: token}, nil
}

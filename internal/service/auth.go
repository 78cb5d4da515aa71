package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/healthconnect-api/internal/apperr"
	"github.com/iliyamo/healthconnect-api/internal/metrics"
	"github.com/iliyamo/healthconnect-api/internal/model"
	"github.com/iliyamo/healthconnect-api/internal/repository"
	"github.com/iliyamo/healthconnect-api/internal/utils"
)

// UserStore is the persistence contract of AuthService.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// SessionStore issues and resolves opaque bearer tokens.
type SessionStore interface {
	Issue(userID uint64) (string, error)
	Resolve(token string) (uint64, bool)
}

// AuthService registers users, verifies passwords and maps bearer tokens
// back to user ids.
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	bcryptCost int
	log        zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, bcryptCost int, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "auth-service").Logger(),
	}
}

// CreateUser stores a new credential. A taken username is reported as a
// conflict whether it is caught by the pre-check or by the unique index.
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		metrics.AuthAttempts.WithLabelValues("signup", "conflict").Inc()
		return nil, apperr.Conflict("username already exists")
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			metrics.AuthAttempts.WithLabelValues("signup", "conflict").Inc()
			return nil, apperr.Conflict("username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()
	s.log.Info().Uint64("user_id", u.ID).Msg("user created")
	return u, nil
}

// Login verifies the credentials and returns a fresh token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPasswordCheck(password)
			metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
			return "", apperr.Unauthorized("invalid credentials")
		}
		return "", fmt.Errorf("load user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		metrics.AuthAttempts.WithLabelValues("login", "invalid").Inc()
		return "", apperr.Unauthorized("invalid credentials")
	}

	tok, err := s.sessions.Issue(u.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	metrics.SessionsIssued.Inc()
	return tok, nil
}

// Signup creates the user and logs them in.
func (s *AuthService) Signup(ctx context.Context, username, password string) (string, error) {
	if _, err := s.CreateUser(ctx, username, password); err != nil {
		return "", err
	}
	return s.Login(ctx, username, password)
}

// Authenticate resolves an Authorization header value of the form
// "Bearer <token>" (scheme in any case) to a user id.
func (s *AuthService) Authenticate(header string) (uint64, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, apperr.Unauthorized("missing or invalid authorization header")
	}
	uid, ok := s.sessions.Resolve(parts[1])
	if !ok {
		return 0, apperr.Unauthorized("invalid token")
	}
	return uid, nil
}

// Me returns the identity behind an authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid token")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

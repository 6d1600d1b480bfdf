package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Justin322322/Ecotracker/internal/domain"
	"github.com/Justin322322/Ecotracker/internal/repository"
	"github.com/Justin322322/Ecotracker/pkg/config"
	"github.com/Justin322322/Ecotracker/pkg/crypto"
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password. The two cases must stay indistinguishable to the caller so the
// endpoint cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when a registration targets an email that
// already has a row.
var ErrEmailTaken = errors.New("email is already registered")

// Service handles credential workflows.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
	cfg    config.Config
}

// New constructs a Service.
func New(users repository.UserRepository, logger *slog.Logger, cfg config.Config) Service {
	return Service{users: users, logger: logger, cfg: cfg}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput carries the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user with a bcrypt-hashed password. A registration
// for an existing email fails with ErrEmailTaken and does not mutate the
// stored row, whether it is caught by the pre-check or by the unique
// constraint when two registrations race.
func (s Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := pause(ctx, s.cfg.RegisterDelay); err != nil {
		return nil, err
	}
	if verr := validateRegister(in); verr != nil {
		return nil, verr
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials against the stored hash.
func (s Service) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	if err := pause(ctx, s.cfg.LoginDelay); err != nil {
		return nil, err
	}
	if verr := validateLogin(in); verr != nil {
		return nil, verr
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := crypto.ComparePassword(user.PasswordHash, in.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// pause blocks for the configured artificial delay while honoring
// cancellation.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

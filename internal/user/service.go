package user

import (
	"context"
	"errors"
	"strings"

	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

const minPasswordLength = 6

type Service interface {
	Register(ctx context.Context, input RegisterInput) (User, error)
	Login(ctx context.Context, email, password string) (User, error)
	GetByID(ctx context.Context, id uint) (User, error)
}

type service struct {
	repo          Repository
	checkPassword func(password, hash string) bool
}

func NewService(repo Repository) Service {
	return &service{repo: repo, checkPassword: auth.CheckPasswordHash}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return User{}, ErrInvalidInput
	}
	if len(input.Password) < minPasswordLength {
		return User{}, ErrWeakPassword
	}

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		log.Error("failed to check existing user", zap.Error(err))
		return User{}, err
	}
	if exists {
		// Same message for email and username so registration cannot be
		// used to probe which one is taken.
		log.Info("registration rejected: account exists")
		return User{}, ErrAccountExists
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return User{}, err
	}

	u, err := s.repo.Create(ctx, CreateUserParams{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashed,
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
	})
	if err != nil {
		return User{}, err
	}

	log.Info("register service completed", zap.Uint("user_id", u.ID))
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			log.Error("failed to load user", zap.Error(err))
			return User{}, err
		}
		s.checkPassword(password, auth.DummyHash())
		log.Info("login failed: unknown email")
		return User{}, ErrInvalidCredentials
	}

	if !s.checkPassword(password, u.PasswordHash) {
		log.Info("login failed: password mismatch", zap.Uint("user_id", u.ID))
		return User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(u.PasswordHash) {
		if hashed, err := auth.HashPassword(password); err == nil {
			if err := s.repo.UpdatePasswordHash(ctx, u.ID, hashed); err != nil {
				log.Warn("failed to upgrade password hash", zap.Error(err))
			}
		}
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (User, error) {
	return s.repo.FindByID(ctx, id)
}

package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (Admin, error)
	Login(ctx context.Context, email, password string) (Admin, error)
	GetByID(ctx context.Context, id uint) (Admin, error)
}

type service struct {
	repo          Repository
	inviteCode    string
	checkPassword func(password, hash string) bool
}

// NewService builds the admin service. A non-empty inviteCode must be
// presented on registration.
func NewService(repo Repository, inviteCode string) Service {
	return &service{repo: repo, inviteCode: inviteCode, checkPassword: auth.CheckPasswordHash}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (Admin, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdminRegister"),
	)

	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return Admin{}, ErrInvalidInput
	}

	if s.inviteCode != "" &&
		subtle.ConstantTimeCompare([]byte(s.inviteCode), []byte(input.InviteCode)) != 1 {
		log.Warn("admin registration without valid invite code")
		return Admin{}, ErrInviteRequired
	}

	exists, err := s.repo.ExistsByNameOrEmail(ctx, name, email)
	if err != nil {
		log.Error("failed to check existing admin", zap.Error(err))
		return Admin{}, err
	}
	if exists {
		return Admin{}, ErrAdminExists
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		return Admin{}, err
	}

	a, err := s.repo.Create(ctx, name, email, hashed)
	if err != nil {
		if !errors.Is(err, ErrAdminExists) {
			log.Error("failed to create admin", zap.Error(err))
		}
		return Admin{}, err
	}

	log.Info("admin registered", zap.Uint("admin_id", a.ID))
	return a, nil
}

func (s *service) Login(ctx context.Context, email, password string) (Admin, error) {
	a, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			s.checkPassword(password, auth.DummyHash())
			return Admin{}, ErrInvalidCredentials
		}
		return Admin{}, err
	}

	if !s.checkPassword(password, a.PasswordHash) {
		logger.FromCtx(ctx).Info("admin login failed", zap.Uint("admin_id", a.ID))
		return Admin{}, ErrInvalidCredentials
	}

	return a, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (Admin, error) {
	return s.repo.FindByID(ctx, id)
}

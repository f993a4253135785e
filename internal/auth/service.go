package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/maisonessence/parfumerie-backend/internal/users"
	pkgauth "github.com/maisonessence/parfumerie-backend/pkg/auth"
	"github.com/maisonessence/parfumerie-backend/pkg/config"
	"github.com/maisonessence/parfumerie-backend/pkg/db"
	"github.com/maisonessence/parfumerie-backend/pkg/db/models"
	"github.com/maisonessence/parfumerie-backend/pkg/enums"
	pkgerrors "github.com/maisonessence/parfumerie-backend/pkg/errors"
	"github.com/maisonessence/parfumerie-backend/pkg/security"
)

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UsersRepo      *users.Repository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Now            func() time.Time
}

// Service registers accounts and exchanges credentials for tokens.
type Service interface {
	Register(ctx context.Context, payload RegisterPayload) (SessionDTO, error)
	Login(ctx context.Context, payload LoginPayload) (SessionDTO, error)
}

type service struct {
	usersRepo   *users.Repository
	jwtConfig   config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UsersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		usersRepo:   params.UsersRepo,
		jwtConfig:   params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         now,
	}, nil
}

// Register creates a customer account and returns a live session.
func (s *service) Register(ctx context.Context, payload RegisterPayload) (SessionDTO, error) {
	email := normalizeEmail(payload.Email)

	hash, err := security.HashPassword(payload.Password, s.passwordCfg)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.usersRepo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleCustomer,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.mintSession(user)
}

// Login verifies credentials. Wrong email and wrong password are
// indistinguishable to the caller.
func (s *service) Login(ctx context.Context, payload LoginPayload) (SessionDTO, error) {
	email := normalizeEmail(payload.Email)

	user, err := s.usersRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(payload.Password, user.PasswordHash)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.mintSession(user)
}

func (s *service) mintSession(user *models.User) (SessionDTO, error) {
	token, err := pkgauth.MintAccessToken(s.jwtConfig, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return SessionDTO{
		AccessToken: token,
		User: users.UserDTO{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

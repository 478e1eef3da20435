package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fenstra/offers-backend/internal/users"
	pkgauth "github.com/fenstra/offers-backend/pkg/auth"
	"github.com/fenstra/offers-backend/pkg/config"
	"github.com/fenstra/offers-backend/pkg/db/models"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/security"
)

// LoginInput carries the credentials of a login attempt.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput carries a self-service registration. Registered accounts
// always start as regular users; roles are granted by an admin afterwards.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=256"`
	FullName string `json:"full_name" validate:"required,max=256"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginResult is the successful outcome of a login or registration.
type LoginResult struct {
	Token string
	User  *models.User
}

// Service implements credential verification and token issuance.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Register(ctx context.Context, input RegisterInput) (*LoginResult, error)
}

type service struct {
	users  users.Service
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires the auth service.
func NewService(userService users.Service, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if userService == nil {
		return nil, fmt.Errorf("auth service requires the user service")
	}
	if logg == nil {
		return nil, fmt.Errorf("auth service requires a logger")
	}
	return &service{users: userService, jwtCfg: jwtCfg, logg: logg, now: time.Now}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		// A missing account and a bad password are indistinguishable to
		// the caller.
		if pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, invalidCredentials()
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	token, err := s.mint(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.RecordLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is advisory.
		s.logg.Warn(s.logg.WithUserID(ctx, user.ID.String()), "recording last login failed")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user logged in")
	return &LoginResult{Token: token, User: user}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	user, _, err := s.users.Create(ctx, users.CreateUserInput{
		Email:    input.Email,
		FullName: input.FullName,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.mint(user)
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user registered")
	return &LoginResult{Token: token, User: user}, nil
}

func (s *service) mint(user *models.User) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}
	return token, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
}

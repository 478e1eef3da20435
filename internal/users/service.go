package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/pkg/config"
	"github.com/fenstra/offers-backend/pkg/db"
	"github.com/fenstra/offers-backend/pkg/db/models"
	"github.com/fenstra/offers-backend/pkg/enums"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/pagination"
	"github.com/fenstra/offers-backend/pkg/security"
)

const tempPasswordLength = 16

// CreateUserInput carries the fields for a new account. An empty password
// makes the service generate a temporary one and return it alongside.
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email,max=256"`
	FullName string `json:"full_name" validate:"required,max=256"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

// Service manages user accounts. All mutating operations are admin surface;
// lookups also serve the login flow.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*models.User, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, page pagination.Params) ([]models.User, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	RecordLogin(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewService wires the user service.
func NewService(repo Repository, passwordCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user service requires a repository")
	}
	if logg == nil {
		return nil, fmt.Errorf("user service requires a logger")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*models.User, string, error) {
	role := enums.UserRoleUser
	if input.Role != "" {
		parsed, err := enums.ParseUserRole(input.Role)
		if err != nil {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		role = parsed
	}

	tempPassword := ""
	password := input.Password
	if password == "" {
		generated, err := security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating temporary password")
		}
		password = generated
		tempPassword = generated
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, "", pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user")
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "user created")
	return user, tempPassword, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return user, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return user, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) ([]models.User, int64, error) {
	rows, total, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing users")
	}
	return rows, total, nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !active {
		if err := s.guardLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}

	user.IsActive = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating user")
	}
	return user, nil
}

func (s *service) SetRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", role))
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != enums.UserRoleAdmin {
		if err := s.guardLastAdmin(ctx, user); err != nil {
			return nil, err
		}
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating user")
	}
	return user, nil
}

// ResetPassword replaces the account password with a generated temporary
// one and returns it so an admin can hand it over out of band.
func (s *service) ResetPassword(ctx context.Context, id uuid.UUID) (string, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	password, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating temporary password")
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating user")
	}

	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "password reset")
	return password, nil
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot delete your own account")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardLastAdmin(ctx, user); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting user")
	}

	s.logg.Info(s.logg.WithUserID(ctx, id.String()), "user deleted")
	return nil
}

func (s *service) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return s.repo.TouchLastLogin(ctx, id)
}

// guardLastAdmin refuses removing, demoting or deactivating the only
// remaining active administrator.
func (s *service) guardLastAdmin(ctx context.Context, user *models.User) error {
	if user.Role != enums.UserRoleAdmin || !user.IsActive {
		return nil
	}
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting administrators")
	}
	if count <= 1 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot remove the last administrator")
	}
	return nil
}

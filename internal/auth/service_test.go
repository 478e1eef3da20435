package auth

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/internal/users"
	pkgauth "github.com/fenstra/offers-backend/pkg/auth"
	"github.com/fenstra/offers-backend/pkg/config"
	"github.com/fenstra/offers-backend/pkg/db/models"
	"github.com/fenstra/offers-backend/pkg/enums"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/pagination"
	"github.com/fenstra/offers-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "test-secret-test-secret-test-secret",
	Issuer:            "fenstra-test",
	ExpirationMinutes: 15,
}

type memoryUsers struct {
	rows []models.User
}

func (m *memoryUsers) Create(_ context.Context, user *models.User) error {
	m.rows = append(m.rows, *user)
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range m.rows {
		if m.rows[i].Email == email {
			row := m.rows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUsers) List(_ context.Context, _ pagination.Params) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (m *memoryUsers) Update(_ context.Context, _ *models.User) error { return nil }

func (m *memoryUsers) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (m *memoryUsers) TouchLastLogin(_ context.Context, _ uuid.UUID) error { return nil }

func (m *memoryUsers) CountAdmins(_ context.Context) (int64, error) { return 0, nil }

func newAuthService(t *testing.T, repo users.Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	userService, err := users.NewService(repo, config.PasswordConfig{}, logg)
	require.NoError(t, err)
	svc, err := NewService(userService, testJWTConfig, logg)
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, repo *memoryUsers, email, password string, active bool) {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	repo.rows = append(repo.rows, models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
		IsActive:     active,
	})
}

func TestLoginHappyPath(t *testing.T) {
	repo := &memoryUsers{}
	seedUser(t, repo, "jan@fenstra.eu", "correct-horse", true)
	svc := newAuthService(t, repo)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "jan@fenstra.eu",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "jan@fenstra.eu", claims.Email)
	assert.Equal(t, enums.UserRoleUser, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &memoryUsers{}
	seedUser(t, repo, "jan@fenstra.eu", "correct-horse", true)
	svc := newAuthService(t, repo)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "jan@fenstra.eu",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := newAuthService(t, &memoryUsers{})

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "ghost@fenstra.eu",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	assert.Equal(t, "invalid email or password", pkgerrors.As(err).Message())
}

func TestLoginDeactivatedAccount(t *testing.T) {
	repo := &memoryUsers{}
	seedUser(t, repo, "jan@fenstra.eu", "correct-horse", false)
	svc := newAuthService(t, repo)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "jan@fenstra.eu",
		Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := &memoryUsers{}
	svc := newAuthService(t, repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "anna@fenstra.eu",
		FullName: "Anna Nowak",
		Password: "long-enough-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	assert.Equal(t, enums.UserRoleUser, result.User.Role)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "anna@fenstra.eu", claims.Email)
}

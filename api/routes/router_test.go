package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fenstra/offers-backend/api/controllers"
	"github.com/fenstra/offers-backend/internal/auth"
	"github.com/fenstra/offers-backend/internal/catalog"
	"github.com/fenstra/offers-backend/internal/invoices"
	"github.com/fenstra/offers-backend/internal/offers"
	"github.com/fenstra/offers-backend/internal/users"
	pkgauth "github.com/fenstra/offers-backend/pkg/auth"
	"github.com/fenstra/offers-backend/pkg/config"
	"github.com/fenstra/offers-backend/pkg/db/models"
	"github.com/fenstra/offers-backend/pkg/enums"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Register(ctx context.Context, input auth.RegisterInput) (*auth.LoginResult, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubCatalogService struct{}

func (stubCatalogService) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	return catalog.NewSnapshot(nil), nil
}

func (stubCatalogService) ListAll(ctx context.Context) ([]catalog.Entry, error) {
	return []catalog.Entry{}, nil
}

func (stubCatalogService) ListByCategory(ctx context.Context, category string) ([]catalog.Entry, error) {
	return []catalog.Entry{}, nil
}

func (stubCatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (stubCatalogService) GetOption(ctx context.Context, id string) (catalog.Entry, error) {
	panic("unimplemented")
}

func (stubCatalogService) CreateOption(ctx context.Context, input catalog.CreateOptionInput) (catalog.Entry, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateOption(ctx context.Context, id string, input catalog.UpdateOptionInput) (catalog.Entry, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteOption(ctx context.Context, id string) error {
	panic("unimplemented")
}

func (stubCatalogService) ImportCSV(ctx context.Context, r io.Reader) (catalog.ImportReport, error) {
	panic("unimplemented")
}

func (stubCatalogService) SeedFromFile(ctx context.Context, path string) error {
	return nil
}

type stubOfferService struct{}

func (stubOfferService) Create(ctx context.Context, actor offers.Actor, input offers.SaveOfferInput) (*models.Offer, error) {
	panic("unimplemented")
}

func (stubOfferService) Update(ctx context.Context, actor offers.Actor, id uuid.UUID, input offers.SaveOfferInput) (*models.Offer, error) {
	panic("unimplemented")
}

func (stubOfferService) Get(ctx context.Context, actor offers.Actor, id uuid.UUID) (*models.Offer, error) {
	panic("unimplemented")
}

func (stubOfferService) List(ctx context.Context, actor offers.Actor, filter offers.ListFilter) ([]models.Offer, int64, error) {
	return []models.Offer{}, 0, nil
}

func (stubOfferService) Delete(ctx context.Context, actor offers.Actor, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubOfferService) SaveOffer(ctx context.Context, offer *offers.Offer, userID uuid.UUID) (uuid.UUID, error) {
	panic("unimplemented")
}

type stubInvoiceService struct{}

func (stubInvoiceService) Issue(ctx context.Context, actor offers.Actor, input invoices.IssueInput) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) Get(ctx context.Context, actor offers.Actor, id uuid.UUID) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubInvoiceService) List(ctx context.Context, actor offers.Actor, page pagination.Params) ([]models.Invoice, int64, error) {
	return []models.Invoice{}, 0, nil
}

func (stubInvoiceService) ListByOffer(ctx context.Context, actor offers.Actor, offerID uuid.UUID) ([]models.Invoice, error) {
	return []models.Invoice{}, nil
}

type stubDocumentService struct{}

func (stubDocumentService) GenerateOfferPDF(ctx context.Context, actor offers.Actor, offerID uuid.UUID) ([]byte, string, error) {
	panic("unimplemented")
}

type stubUserService struct{}

func (stubUserService) Create(ctx context.Context, input users.CreateUserInput) (*models.User, string, error) {
	panic("unimplemented")
}

func (stubUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) List(ctx context.Context, page pagination.Params) ([]models.User, int64, error) {
	return []models.User{}, 0, nil
}

func (stubUserService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) SetRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) ResetPassword(ctx context.Context, id uuid.UUID) (string, error) {
	panic("unimplemented")
}

func (stubUserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubUserService) RecordLogin(ctx context.Context, id uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: zerolog.Disabled, Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        stubPinger{},
		AuthService:     stubAuthService{},
		UserService:     stubUserService{},
		CatalogService:  stubCatalogService{},
		OfferService:    stubOfferService{},
		InvoiceService:  stubInvoiceService{},
		DocumentService: stubDocumentService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "seller@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestHealthReadyIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for offer list got %d", resp.Code)
	}
}

func TestOptionsReadableByRegularUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/options/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for option list got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleUser,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token got %d", resp.Code)
	}
}

func TestLoginRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

var _ controllers.Pinger = stubPinger{}

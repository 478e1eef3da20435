package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/internal/catalog"
	"github.com/fenstra/offers-backend/internal/offers"
	"github.com/fenstra/offers-backend/pkg/db"
	"github.com/fenstra/offers-backend/pkg/db/models"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/pagination"
	"github.com/fenstra/offers-backend/pkg/types"
)

const (
	defaultPaymentMethod = "przelew bankowy"
	defaultCurrency      = "EUR"
)

// IssueInput carries the request to issue an invoice from an offer.
type IssueInput struct {
	OfferID    uuid.UUID         `json:"offer_id" validate:"required"`
	ClientInfo map[string]string `json:"client_info"`
	Notes      string            `json:"notes" validate:"max=4000"`
}

// Service issues and reads invoices. Reads are scoped the same way as the
// offers they were issued from: non-admins only see invoices belonging to
// their own offers.
type Service interface {
	Issue(ctx context.Context, actor offers.Actor, input IssueInput) (*models.Invoice, error)
	Get(ctx context.Context, actor offers.Actor, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, actor offers.Actor, page pagination.Params) ([]models.Invoice, int64, error)
	ListByOffer(ctx context.Context, actor offers.Actor, offerID uuid.UUID) ([]models.Invoice, error)
}

type service struct {
	client       *db.Client
	repo         Repository
	offerService offers.Service
	catalog      catalog.Service
	logg         *logger.Logger
	termDays     int
	now          func() time.Time
}

// NewService wires the invoice service. termDays is the payment term added
// to the issue date to produce the due date.
func NewService(
	client *db.Client,
	repo Repository,
	offerService offers.Service,
	catalogService catalog.Service,
	logg *logger.Logger,
	termDays int,
) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("invoice service requires a database client")
	}
	if repo == nil {
		return nil, fmt.Errorf("invoice service requires a repository")
	}
	if offerService == nil {
		return nil, fmt.Errorf("invoice service requires the offer service")
	}
	if catalogService == nil {
		return nil, fmt.Errorf("invoice service requires the catalog service")
	}
	if logg == nil {
		return nil, fmt.Errorf("invoice service requires a logger")
	}
	if termDays <= 0 {
		termDays = 14
	}
	return &service{
		client:       client,
		repo:         repo,
		offerService: offerService,
		catalog:      catalogService,
		logg:         logg,
		termDays:     termDays,
		now:          time.Now,
	}, nil
}

// Issue builds an invoice from a persisted offer. Totals are copied from
// the offer; option ids on the items are resolved to display names against
// the current catalog.
func (s *service) Issue(ctx context.Context, actor offers.Actor, input IssueInput) (*models.Invoice, error) {
	offer, err := s.offerService.Get(ctx, actor, input.OfferID)
	if err != nil {
		return nil, err
	}
	if len(offer.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "offer has no items to invoice")
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	issueDate := s.now()
	invoice := &models.Invoice{
		OfferID:       offer.ID,
		Number:        buildNumber(issueDate),
		IssueDate:     issueDate,
		DueDate:       issueDate.AddDate(0, 0, s.termDays),
		PaymentMethod: defaultPaymentMethod,
		ClientInfo:    types.StringMap(input.ClientInfo).Clone(),
		Currency:      defaultCurrency,
		NetTotal:      offer.NetTotal,
		VATAmount:     offer.VATTotal,
		GrossTotal:    offer.GrossTotal,
	}
	if input.Notes != "" {
		notes := input.Notes
		invoice.Notes = &notes
	}

	for _, item := range offer.Items {
		invoice.Items = append(invoice.Items, buildItem(item, snapshot))
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, invoice)
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "invoice number already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating invoice")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"invoice_number": invoice.Number,
		"offer_id":       offer.ID.String(),
	})
	s.logg.Info(ctx, "invoice issued")
	return invoice, nil
}

func (s *service) Get(ctx context.Context, actor offers.Actor, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading invoice")
	}
	// Ownership follows the underlying offer.
	if _, err := s.offerService.Get(ctx, actor, invoice.OfferID); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *service) List(ctx context.Context, actor offers.Actor, page pagination.Params) ([]models.Invoice, int64, error) {
	var ownerID *uuid.UUID
	if !actor.IsAdmin {
		ownerID = &actor.UserID
	}
	rows, total, err := s.repo.List(ctx, ownerID, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing invoices")
	}
	return rows, total, nil
}

func (s *service) ListByOffer(ctx context.Context, actor offers.Actor, offerID uuid.UUID) ([]models.Invoice, error) {
	if _, err := s.offerService.Get(ctx, actor, offerID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByOffer(ctx, offerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing offer invoices")
	}
	return rows, nil
}

// buildNumber produces FV/YYYY/MM/DD/HHMMSS from the issue timestamp.
func buildNumber(issue time.Time) string {
	return fmt.Sprintf("FV/%04d/%02d/%02d/%02d%02d%02d",
		issue.Year(), issue.Month(), issue.Day(),
		issue.Hour(), issue.Minute(), issue.Second())
}

func buildItem(item models.OfferItem, snapshot *catalog.Snapshot) models.InvoiceItem {
	quantity := 1
	if item.Quantity != nil {
		quantity = *item.Quantity
	}

	names := make(types.StringMap, len(item.Selections))
	for category, optionID := range item.Selections {
		if entry, ok := snapshot.ByID(optionID); ok {
			names[category] = entry.Name
		} else {
			names[category] = optionID
		}
	}

	net := item.UnitNetPrice.Mul(decimal.NewFromInt(int64(quantity)))
	vat := net.Mul(offers.VATRate).Round(2)

	return models.InvoiceItem{
		TypeID:      item.TypeID,
		WidthMm:     item.WidthMm,
		HeightMm:    item.HeightMm,
		Quantity:    quantity,
		UnitPrice:   item.UnitNetPrice,
		OptionNames: names,
		NetAmount:   net,
		GrossAmount: net.Add(vat).Round(2),
	}
}

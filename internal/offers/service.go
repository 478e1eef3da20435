package offers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fenstra/offers-backend/pkg/db"
	"github.com/fenstra/offers-backend/pkg/db/models"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/metrics"
	"github.com/fenstra/offers-backend/pkg/types"
)

// Actor identifies who is performing an operation, for ownership scoping.
// Admins operate across all owners.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// ItemInput is one line item as submitted by a client. The unit price was
// computed client-side against the catalog snapshot the client was holding
// and is stored exactly as sent.
type ItemInput struct {
	TypeID       string            `json:"type_id" validate:"required,max=64"`
	WidthMm      int               `json:"width_mm" validate:"required,gt=0"`
	HeightMm     int               `json:"height_mm" validate:"required,gt=0"`
	Selections   map[string]string `json:"selections"`
	UnitNetPrice decimal.Decimal   `json:"unit_net_price"`
	Quantity     *int              `json:"quantity" validate:"omitempty,gte=1"`
}

// SaveOfferInput is the full offer payload for create and update. Totals
// arrive precomputed and are persisted as sent.
type SaveOfferInput struct {
	Number       string          `json:"number" validate:"required,max=64"`
	OfferDate    time.Time       `json:"offer_date" validate:"required"`
	CustomerName string          `json:"customer_name" validate:"required,max=256"`
	Notes        string          `json:"notes" validate:"max=4000"`
	NetTotal     decimal.Decimal `json:"net_total"`
	VATTotal     decimal.Decimal `json:"vat_total"`
	GrossTotal   decimal.Decimal `json:"gross_total"`
	Items        []ItemInput     `json:"items" validate:"required,min=1,dive"`
}

// Service exposes offer persistence operations. It also satisfies Saver so
// a Workflow can commit aggregates through the same code path.
type Service interface {
	Create(ctx context.Context, actor Actor, input SaveOfferInput) (*models.Offer, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, input SaveOfferInput) (*models.Offer, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Offer, error)
	List(ctx context.Context, actor Actor, filter ListFilter) ([]models.Offer, int64, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	SaveOffer(ctx context.Context, offer *Offer, userID uuid.UUID) (uuid.UUID, error)
}

type service struct {
	client *db.Client
	repo   Repository
	logg   *logger.Logger
	stats  *metrics.HTTPMetrics
}

// NewService wires the offer service. The metrics handle may be nil.
func NewService(client *db.Client, repo Repository, logg *logger.Logger, stats *metrics.HTTPMetrics) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("offer service requires a database client")
	}
	if repo == nil {
		return nil, fmt.Errorf("offer service requires a repository")
	}
	if logg == nil {
		return nil, fmt.Errorf("offer service requires a logger")
	}
	return &service{client: client, repo: repo, logg: logg, stats: stats}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input SaveOfferInput) (*models.Offer, error) {
	row := inputToModel(actor.UserID, input)

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, row)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating offer")
	}

	s.stats.IncOffersCreated()
	ctx = s.logg.WithOfferID(ctx, row.ID.String())
	s.logg.Info(ctx, "offer created")
	return s.reload(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, input SaveOfferInput) (*models.Offer, error) {
	existing, err := s.ownedOffer(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	row := inputToModel(existing.UserID, input)
	row.ID = id

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.Replace(ctx, tx, row)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating offer")
	}

	s.logg.Info(s.logg.WithOfferID(ctx, id.String()), "offer updated")
	return s.reload(ctx, id)
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.Offer, error) {
	return s.ownedOffer(ctx, actor, id)
}

func (s *service) List(ctx context.Context, actor Actor, filter ListFilter) ([]models.Offer, int64, error) {
	if !actor.IsAdmin {
		userID := actor.UserID
		filter.UserID = &userID
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing offers")
	}
	return rows, total, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.ownedOffer(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting offer")
	}

	s.logg.Info(s.logg.WithOfferID(ctx, id.String()), "offer deleted")
	return nil
}

// SaveOffer persists a workflow aggregate, creating on first save and
// replacing on later ones.
func (s *service) SaveOffer(ctx context.Context, offer *Offer, userID uuid.UUID) (uuid.UUID, error) {
	row := aggregateToModel(offer, userID)

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if offer.ID() == nil {
			return s.repo.Create(ctx, tx, row)
		}
		row.ID = *offer.ID()
		return s.repo.Replace(ctx, tx, row)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving offer")
	}

	if offer.ID() == nil {
		s.stats.IncOffersCreated()
	}
	return row.ID, nil
}

// ownedOffer loads an offer and enforces that the actor may touch it.
func (s *service) ownedOffer(ctx context.Context, actor Actor, id uuid.UUID) (*models.Offer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading offer")
	}
	if !actor.IsAdmin && row.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "offer belongs to another user")
	}
	return row, nil
}

func (s *service) reload(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading offer")
	}
	return row, nil
}

func inputToModel(userID uuid.UUID, input SaveOfferInput) *models.Offer {
	row := &models.Offer{
		UserID:       userID,
		Number:       input.Number,
		OfferDate:    input.OfferDate,
		CustomerName: input.CustomerName,
		NetTotal:     input.NetTotal,
		VATTotal:     input.VATTotal,
		GrossTotal:   input.GrossTotal,
	}
	if input.Notes != "" {
		notes := input.Notes
		row.Notes = &notes
	}
	for i, item := range input.Items {
		row.Items = append(row.Items, models.OfferItem{
			Position:     i,
			TypeID:       item.TypeID,
			WidthMm:      item.WidthMm,
			HeightMm:     item.HeightMm,
			Selections:   types.StringMap(item.Selections).Clone(),
			UnitNetPrice: item.UnitNetPrice,
			Quantity:     item.Quantity,
		})
	}
	return row
}

func aggregateToModel(offer *Offer, userID uuid.UUID) *models.Offer {
	meta := offer.Meta()
	totals := offer.Totals()

	row := &models.Offer{
		UserID:       userID,
		Number:       meta.Number,
		OfferDate:    meta.OfferDate,
		CustomerName: meta.CustomerName,
		NetTotal:     totals.Net,
		VATTotal:     totals.VAT,
		GrossTotal:   totals.Gross,
	}
	if meta.Notes != "" {
		notes := meta.Notes
		row.Notes = &notes
	}
	for i, item := range offer.Items() {
		row.Items = append(row.Items, models.OfferItem{
			Position:     i,
			TypeID:       item.TypeID,
			WidthMm:      item.WidthMm,
			HeightMm:     item.HeightMm,
			Selections:   types.StringMap(item.Selections).Clone(),
			UnitNetPrice: item.UnitNetPrice,
			Quantity:     item.Quantity,
		})
	}
	return row
}

// AggregateFromModel rebuilds an editable aggregate from a stored offer.
func AggregateFromModel(row *models.Offer) *Offer {
	meta := Metadata{
		Number:       row.Number,
		OfferDate:    row.OfferDate,
		CustomerName: row.CustomerName,
	}
	if row.Notes != nil {
		meta.Notes = *row.Notes
	}

	offer := NewOffer(meta)
	for _, item := range row.Items {
		offer.items = append(offer.items, LineItem{
			TypeID:       item.TypeID,
			WidthMm:      item.WidthMm,
			HeightMm:     item.HeightMm,
			Selections:   map[string]string(item.Selections.Clone()),
			UnitNetPrice: item.UnitNetPrice,
			Quantity:     item.Quantity,
		})
	}
	// Stored totals stand as written until the next local recompute.
	offer.totals = Totals{Net: row.NetTotal, VAT: row.VATTotal, Gross: row.GrossTotal}
	offer.SetID(row.ID)
	return offer
}

package documents

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fenstra/offers-backend/internal/catalog"
	"github.com/fenstra/offers-backend/internal/offers"
	"github.com/fenstra/offers-backend/pkg/db/models"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/metrics"
)

const documentCurrency = "EUR"

// Printer renders an HTML document into PDF bytes.
type Printer interface {
	PrintHTML(ctx context.Context, html string) ([]byte, error)
}

// Service renders offer documents.
type Service interface {
	GenerateOfferPDF(ctx context.Context, actor offers.Actor, offerID uuid.UUID) ([]byte, string, error)
}

type service struct {
	offerService offers.Service
	catalog      catalog.Service
	renderer     *Renderer
	printer      Printer
	logg         *logger.Logger
	stats        *metrics.HTTPMetrics
}

// NewService wires the document service. The metrics handle may be nil.
func NewService(
	offerService offers.Service,
	catalogService catalog.Service,
	renderer *Renderer,
	printer Printer,
	logg *logger.Logger,
	stats *metrics.HTTPMetrics,
) (Service, error) {
	if offerService == nil {
		return nil, fmt.Errorf("document service requires the offer service")
	}
	if catalogService == nil {
		return nil, fmt.Errorf("document service requires the catalog service")
	}
	if renderer == nil {
		return nil, fmt.Errorf("document service requires a renderer")
	}
	if printer == nil {
		return nil, fmt.Errorf("document service requires a printer")
	}
	if logg == nil {
		return nil, fmt.Errorf("document service requires a logger")
	}
	return &service{
		offerService: offerService,
		catalog:      catalogService,
		renderer:     renderer,
		printer:      printer,
		logg:         logg,
		stats:        stats,
	}, nil
}

// GenerateOfferPDF renders the persisted offer as a PDF. Offers without
// items cannot be rendered. The returned filename is ready for a
// Content-Disposition header.
func (s *service) GenerateOfferPDF(ctx context.Context, actor offers.Actor, offerID uuid.UUID) ([]byte, string, error) {
	offer, err := s.offerService.Get(ctx, actor, offerID)
	if err != nil {
		return nil, "", err
	}
	if len(offer.Items) == 0 {
		return nil, "", pkgerrors.New(pkgerrors.CodeStateConflict, "offer has no items to render")
	}

	snapshot, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, "", err
	}

	html, err := s.renderer.RenderOfferHTML(buildOfferView(offer, snapshot))
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering offer document")
	}

	pdf, err := s.printer.PrintHTML(ctx, html)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "printing offer document")
	}

	s.stats.IncPDFsRendered()
	s.logg.Info(s.logg.WithOfferID(ctx, offerID.String()), "offer PDF rendered")
	return pdf, pdfFilename(offer.Number), nil
}

func buildOfferView(offer *models.Offer, snapshot *catalog.Snapshot) OfferView {
	view := OfferView{
		Number:       offer.Number,
		OfferDate:    offer.OfferDate,
		CustomerName: offer.CustomerName,
		NetTotal:     offer.NetTotal,
		VATTotal:     offer.VATTotal,
		GrossTotal:   offer.GrossTotal,
		Currency:     documentCurrency,
		GeneratedAt:  time.Now().UTC(),
	}
	if offer.Notes != nil {
		view.Notes = *offer.Notes
	}

	for i, item := range offer.Items {
		quantity := 1
		if item.Quantity != nil {
			quantity = *item.Quantity
		}

		typeName := item.TypeID
		if entry, ok := snapshot.ByID(item.TypeID); ok {
			typeName = entry.Name
		}

		var optionNames []string
		for _, optionID := range item.Selections {
			if entry, ok := snapshot.ByID(optionID); ok {
				optionNames = append(optionNames, entry.Name)
			} else {
				optionNames = append(optionNames, optionID)
			}
		}
		sort.Strings(optionNames)

		view.Items = append(view.Items, OfferItemView{
			Position:    i + 1,
			TypeName:    typeName,
			WidthMm:     item.WidthMm,
			HeightMm:    item.HeightMm,
			OptionNames: optionNames,
			Quantity:    quantity,
			UnitPrice:   item.UnitNetPrice,
			NetAmount:   item.UnitNetPrice.Mul(decimal.NewFromInt(int64(quantity))),
		})
	}
	return view
}

func pdfFilename(number string) string {
	safe := make([]rune, 0, len(number))
	for _, r := range number {
		if r == '/' || r == '\\' || r == ' ' {
			safe = append(safe, '_')
			continue
		}
		safe = append(safe, r)
	}
	return fmt.Sprintf("oferta_%s.pdf", string(safe))
}

package documents

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// OfferItemView is one line of the rendered offer document.
type OfferItemView struct {
	Position    int
	TypeName    string
	WidthMm     int
	HeightMm    int
	OptionNames []string
	Quantity    int
	UnitPrice   decimal.Decimal
	NetAmount   decimal.Decimal
}

// OfferView is the template payload for an offer document.
type OfferView struct {
	Number       string
	OfferDate    time.Time
	CustomerName string
	Notes        string
	Items        []OfferItemView
	NetTotal     decimal.Decimal
	VATTotal     decimal.Decimal
	GrossTotal   decimal.Decimal
	Currency     string
	GeneratedAt  time.Time
}

// Renderer turns view payloads into printable HTML.
type Renderer struct {
	offer *template.Template
}

// NewRenderer parses the embedded document templates.
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"money": func(value decimal.Decimal) string {
			return value.StringFixed(2)
		},
		"date": func(value time.Time) string {
			return value.Format("02.01.2006")
		},
	}

	offer, err := template.New("offer.html").Funcs(funcs).ParseFS(templateFS, "templates/offer.html")
	if err != nil {
		return nil, fmt.Errorf("parsing offer template: %w", err)
	}
	return &Renderer{offer: offer}, nil
}

// RenderOfferHTML produces the full HTML document for an offer.
func (r *Renderer) RenderOfferHTML(view OfferView) (string, error) {
	var buf bytes.Buffer
	if err := r.offer.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering offer document: %w", err)
	}
	return buf.String(), nil
}

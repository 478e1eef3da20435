package offers

import (
	"github.com/shopspring/decimal"

	"github.com/fenstra/offers-backend/internal/pricing"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
)

// ErrSessionNotInitialized signals a configurator mutation before Begin.
// Callers must treat this as a programming error in the flow, not as user
// input to recover from.
var ErrSessionNotInitialized = pkgerrors.New(pkgerrors.CodeStateConflict, "configuration session not initialized")

// LineItem is one fully configured product inside an offer.
type LineItem struct {
	TypeID       string            `json:"type_id"`
	TypeName     string            `json:"type_name"`
	WidthMm      int               `json:"width_mm"`
	HeightMm     int               `json:"height_mm"`
	Selections   map[string]string `json:"selections"`
	UnitNetPrice decimal.Decimal   `json:"unit_net_price"`
	Quantity     *int              `json:"quantity,omitempty"`
}

// EffectiveQuantity resolves the optional quantity, defaulting to one.
func (li LineItem) EffectiveQuantity() int {
	if li.Quantity == nil {
		return 1
	}
	return *li.Quantity
}

// LineNetTotal is the item's net contribution to the offer.
func (li LineItem) LineNetTotal() decimal.Decimal {
	return li.UnitNetPrice.Mul(decimal.NewFromInt(int64(li.EffectiveQuantity())))
}

// Session holds the in-progress configuration of a single product. Every
// setter requires Begin to have run first; a session that was never begun,
// or that was consumed by Commit, rejects all mutation.
type Session struct {
	initialized bool

	typeID   string
	typeName string
	widthMm  int
	heightMm int

	selections map[string]string
	quantity   *int

	dimensionErr error
}

// NewSession returns an empty, uninitialized session.
func NewSession() *Session {
	return &Session{}
}

// Begin resets the session to a blank initialized state. Any previous
// partial configuration is discarded.
func (s *Session) Begin() {
	*s = Session{
		initialized: true,
		selections:  make(map[string]string),
	}
}

// Initialized reports whether the session accepts mutation.
func (s *Session) Initialized() bool {
	return s.initialized
}

// SetType replaces the product type. Existing option selections are kept;
// the dimension bounds are re-evaluated against the new name.
func (s *Session) SetType(id, name string) error {
	if !s.initialized {
		return ErrSessionNotInitialized
	}
	s.typeID = id
	s.typeName = name
	s.revalidate()
	return nil
}

// SetWidth replaces the width in millimetres.
func (s *Session) SetWidth(widthMm int) error {
	if !s.initialized {
		return ErrSessionNotInitialized
	}
	s.widthMm = widthMm
	s.revalidate()
	return nil
}

// SetHeight replaces the height in millimetres.
func (s *Session) SetHeight(heightMm int) error {
	if !s.initialized {
		return ErrSessionNotInitialized
	}
	s.heightMm = heightMm
	s.revalidate()
	return nil
}

// SetQuantity sets the optional piece count. Values below one are rejected.
func (s *Session) SetQuantity(quantity int) error {
	if !s.initialized {
		return ErrSessionNotInitialized
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	s.quantity = &quantity
	return nil
}

// ClearQuantity removes an explicit quantity, falling back to one.
func (s *Session) ClearQuantity() error {
	if !s.initialized {
		return ErrSessionNotInitialized
	}
	s.quantity = nil
	return nil
}

// SetOption selects the option for a category. At most one option per
// category is held; an empty option id clears the category entirely.
func (s *Session) SetOption(category, optionID string) error {
	if !s.initialized {
		return ErrSessionNotInitialized
	}
	if optionID == "" {
		delete(s.selections, category)
		return nil
	}
	s.selections[category] = optionID
	return nil
}

// Selections returns a copy of the current per-category choices.
func (s *Session) Selections() map[string]string {
	out := make(map[string]string, len(s.selections))
	for category, optionID := range s.selections {
		out[category] = optionID
	}
	return out
}

// DimensionError returns the violation recorded by the last dimension or
// type change, nil when the current configuration is within bounds.
func (s *Session) DimensionError() error {
	return s.dimensionErr
}

// Commit prices the configuration against the catalog and produces a line
// item. A successful commit consumes the session: it must be begun again
// before the next configuration.
func (s *Session) Commit(basePrice decimal.Decimal, catalog pricing.OptionPricer) (LineItem, error) {
	if !s.initialized {
		return LineItem{}, ErrSessionNotInitialized
	}
	if s.typeID == "" {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product type must be selected")
	}
	if s.widthMm <= 0 || s.heightMm <= 0 {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "width and height must be provided")
	}
	if s.dimensionErr != nil {
		return LineItem{}, s.dimensionErr
	}

	item := LineItem{
		TypeID:       s.typeID,
		TypeName:     s.typeName,
		WidthMm:      s.widthMm,
		HeightMm:     s.heightMm,
		Selections:   s.Selections(),
		UnitNetPrice: pricing.UnitNetPrice(basePrice, s.widthMm, s.heightMm, s.selections, catalog),
		Quantity:     s.quantity,
	}

	*s = Session{}
	return item, nil
}

// revalidate refreshes the stored dimension violation. Partial input, a
// missing dimension or a missing type, is not a violation yet.
func (s *Session) revalidate() {
	if s.widthMm <= 0 || s.heightMm <= 0 {
		s.dimensionErr = nil
		return
	}
	s.dimensionErr = pricing.ValidateDimensions(float64(s.widthMm), float64(s.heightMm), s.typeName)
}

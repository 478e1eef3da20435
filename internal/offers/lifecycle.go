package offers

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
)

// State is the lifecycle position of an offer being worked on.
type State string

const (
	StateDraft      State = "draft"
	StateCommitting State = "committing"
	StatePersisted  State = "persisted"
	StateDiscarded  State = "discarded"
)

// Saver persists the aggregate, returning its store identity. A first save
// creates, a save of an offer with an identity updates.
type Saver interface {
	SaveOffer(ctx context.Context, offer *Offer, userID uuid.UUID) (uuid.UUID, error)
}

// Workflow drives an offer through draft, commit and persistence and
// enforces the gates between them. It is not safe for concurrent use; each
// editing flow owns one workflow.
type Workflow struct {
	state State
	offer *Offer
	saver Saver
}

// NewWorkflow builds a workflow with no active offer.
func NewWorkflow(saver Saver) (*Workflow, error) {
	if saver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "offer workflow requires a saver")
	}
	return &Workflow{saver: saver, state: StateDiscarded}, nil
}

// State reports the current lifecycle position.
func (w *Workflow) State() State {
	return w.state
}

// Offer returns the aggregate being edited, nil when none is active.
func (w *Workflow) Offer() *Offer {
	return w.offer
}

// StartDraft begins a fresh offer. It is rejected mid-save; any other state
// simply abandons the previous offer.
func (w *Workflow) StartDraft(meta Metadata) error {
	if w.state == StateCommitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot start a draft while a save is in flight")
	}
	w.offer = NewOffer(meta)
	w.state = StateDraft
	return nil
}

// Load resumes editing of a previously persisted offer.
func (w *Workflow) Load(offer *Offer) error {
	if w.state == StateCommitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot load an offer while a save is in flight")
	}
	if offer == nil || offer.ID() == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "only a persisted offer can be loaded")
	}
	w.offer = offer
	w.state = StatePersisted
	return nil
}

// MarkEdited drops a persisted offer back to draft after a mutation, so the
// next save runs before it can be treated as current again.
func (w *Workflow) MarkEdited() error {
	switch w.state {
	case StatePersisted:
		w.state = StateDraft
		return nil
	case StateDraft:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no editable offer")
	}
}

// Save persists the active offer. Saving is gated on at least one line
// item. A failed save returns the offer to draft; nothing of the aggregate
// is lost.
func (w *Workflow) Save(ctx context.Context, userID uuid.UUID) error {
	if w.state != StateDraft {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "only a draft offer can be saved")
	}
	if w.offer.ItemCount() == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer must contain at least one item")
	}

	w.state = StateCommitting
	id, err := w.saver.SaveOffer(ctx, w.offer, userID)
	if err != nil {
		w.state = StateDraft
		return err
	}

	w.offer.SetID(id)
	w.state = StatePersisted
	return nil
}

// Discard abandons the active offer entirely.
func (w *Workflow) Discard() error {
	if w.state == StateCommitting {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot discard while a save is in flight")
	}
	w.offer = nil
	w.state = StateDiscarded
	return nil
}

// CanGeneratePDF reports whether a document may be rendered: the offer must
// be persisted with an identity and hold at least one item.
func (w *Workflow) CanGeneratePDF() bool {
	return w.state == StatePersisted &&
		w.offer != nil &&
		w.offer.ID() != nil &&
		w.offer.ItemCount() > 0
}

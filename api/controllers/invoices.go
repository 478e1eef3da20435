package controllers

import (
	"net/http"

	"github.com/fenstra/offers-backend/api/middleware"
	"github.com/fenstra/offers-backend/api/responses"
	"github.com/fenstra/offers-backend/api/validators"
	"github.com/fenstra/offers-backend/internal/invoices"
	"github.com/fenstra/offers-backend/pkg/logger"
)

// IssueInvoice creates an invoice from a persisted offer.
func IssueInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())

		var input invoices.IssueInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		invoice, err := svc.Issue(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, toInvoiceDTO(invoice))
	}
}

// GetInvoice returns one invoice with its items. Access follows the
// ownership of the underlying offer.
func GetInvoice(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		invoice, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, toInvoiceDTO(invoice))
	}
}

// ListInvoices returns the caller's invoices newest first; admins see all.
func ListInvoices(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())
		page, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		rows, total, err := svc.List(r.Context(), actor, page)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteList(w, toInvoiceDTOs(rows), total)
	}
}

// ListOfferInvoices returns the invoices issued from one offer.
func ListOfferInvoices(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())
		offerID, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		rows, err := svc.ListByOffer(r.Context(), actor, offerID)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, toInvoiceDTOs(rows))
	}
}

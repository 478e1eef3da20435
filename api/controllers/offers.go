package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/fenstra/offers-backend/api/middleware"
	"github.com/fenstra/offers-backend/api/responses"
	"github.com/fenstra/offers-backend/api/validators"
	"github.com/fenstra/offers-backend/internal/documents"
	"github.com/fenstra/offers-backend/internal/offers"
	"github.com/fenstra/offers-backend/pkg/logger"
)

// ListOffers returns the caller's offers; admins see everyone's. Supports
// search, date range, sort and pagination query parameters.
func ListOffers(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())

		page, err := validators.Pagination(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		dateFrom, err := validators.DateQuery(r, "date_from")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		dateTo, err := validators.DateQuery(r, "date_to")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		sortBy, sortDir, err := validators.SortQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		rows, total, err := svc.List(r.Context(), actor, offers.ListFilter{
			Search:   r.URL.Query().Get("search"),
			DateFrom: dateFrom,
			DateTo:   dateTo,
			SortBy:   sortBy,
			SortDir:  sortDir,
			Page:     page,
		})
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteList(w, toOfferDTOs(rows), total)
	}
}

// GetOffer returns one offer with its items.
func GetOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		offer, err := svc.Get(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, toOfferDTO(offer))
	}
}

// CreateOffer persists a new offer exactly as submitted.
func CreateOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())

		var input offers.SaveOfferInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		offer, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, toOfferDTO(offer))
	}
}

// UpdateOffer replaces an offer's fields and items wholesale.
func UpdateOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		var input offers.SaveOfferInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		offer, err := svc.Update(r.Context(), actor, id, input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, toOfferDTO(offer))
	}
}

// DeleteOffer removes an offer and its items.
func DeleteOffer(svc offers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// DownloadOfferPDF streams the rendered offer document.
func DownloadOfferPDF(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := middleware.ActorFromContext(r.Context())
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		pdf, filename, err := svc.GenerateOfferPDF(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
	}
}

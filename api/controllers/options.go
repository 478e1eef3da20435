package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fenstra/offers-backend/api/responses"
	"github.com/fenstra/offers-backend/api/validators"
	"github.com/fenstra/offers-backend/internal/catalog"
	"github.com/fenstra/offers-backend/pkg/logger"
)

// ListOptions returns the catalog, optionally narrowed to one category.
func ListOptions(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")

		var (
			entries []catalog.Entry
			err     error
		)
		if category != "" {
			entries, err = svc.ListByCategory(r.Context(), category)
		} else {
			entries, err = svc.ListAll(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, entries)
	}
}

// ListCategories returns the distinct catalog categories.
func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, categories)
	}
}

// GetOption returns a single catalog option by its id.
func GetOption(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := svc.GetOption(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, entry)
	}
}

// CreateOption adds a catalog option. Admin surface.
func CreateOption(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input catalog.CreateOptionInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		entry, err := svc.CreateOption(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusCreated, entry)
	}
}

// UpdateOption mutates a catalog option. Admin surface.
func UpdateOption(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input catalog.UpdateOptionInput
		if err := validators.DecodeJSONBody(w, r, &input); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}

		entry, err := svc.UpdateOption(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, entry)
	}
}

// DeleteOption removes a catalog option. Admin surface.
func DeleteOption(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteOption(r.Context(), chi.URLParam(r, "id")); err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// ImportOptionsCSV replaces the catalog with the uploaded CSV body. Admin
// surface; the request body is the raw CSV.
func ImportOptionsCSV(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.ImportCSV(r.Context(), r.Body)
		if err != nil {
			responses.WriteError(r.Context(), w, logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, report)
	}
}

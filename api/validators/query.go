package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fenstra/offers-backend/pkg/enums"
	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

// UUIDParam parses a uuid path parameter.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be a valid UUID", name))
	}
	return id, nil
}

// Pagination reads limit and offset query parameters, clamped to policy.
func Pagination(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "limit must be an integer")
		}
		params.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, pkgerrors.New(pkgerrors.CodeValidation, "offset must be a non-negative integer")
		}
		params.Offset = offset
	}
	return pagination.Normalize(params), nil
}

// DateQuery reads an optional YYYY-MM-DD query parameter.
func DateQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name))
	}
	return &parsed, nil
}

// SortQuery reads sort_by and sort_dir query parameters.
func SortQuery(r *http.Request) (string, enums.SortDirection, error) {
	direction, err := enums.ParseSortDirection(r.URL.Query().Get("sort_dir"))
	if err != nil {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return r.URL.Query().Get("sort_by"), direction, nil
}

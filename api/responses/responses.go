package responses

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
	"github.com/fenstra/offers-backend/pkg/types"
)

// ListEnvelope wraps paginated collections.
type ListEnvelope struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
}

// WriteSuccess writes the standard success envelope.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: data})
}

// WriteList writes a collection with its total row count.
func WriteList(w http.ResponseWriter, items any, total int64) {
	WriteSuccess(w, http.StatusOK, ListEnvelope{Items: items, Total: total})
}

// WriteError maps an error onto the HTTP surface using the error code
// metadata. Unknown errors surface as internals; their causes are logged,
// never exposed.
func WriteError(ctx context.Context, w http.ResponseWriter, logg *logger.Logger, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	if meta.HTTPStatus >= http.StatusInternalServerError {
		dump := pkgerrors.Dump(err)
		ctx = logg.WithFields(ctx, map[string]any{
			"error_code":    dump.Code,
			"error_chain":   dump.Chain,
			"pg_code":       dump.PGCode,
			"pg_detail":     dump.PGDetail,
			"pg_message":    dump.PGMessage,
			"pg_table":      dump.PGTable,
			"pg_column":     dump.PGColumn,
			"pg_constraint": dump.PGConstraint,
		})
		logg.Error(ctx, "request failed", err)
	}

	payload := types.APIError{
		Code:    string(typed.Code()),
		Message: typed.Message(),
	}
	if payload.Message == "" {
		payload.Message = meta.PublicMessage
	}
	if meta.DetailsAllowed {
		payload.Details = typed.Details()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(meta.HTTPStatus)
	_ = json.NewEncoder(w).Encode(types.ErrorEnvelope{Error: payload})
}

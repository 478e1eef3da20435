package responses

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/fenstra/offers-backend/pkg/errors"
	"github.com/fenstra/offers-backend/pkg/logger"
)

func TestWriteErrorLogsDriverDetailsOnServerErrors(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: &buf})

	cause := &pq.Error{Code: "23505", Constraint: "offers_number_key", Table: "offers"}
	err := pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "saving offer")

	rec := httptest.NewRecorder()
	WriteError(context.Background(), rec, logg, err)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	line := buf.String()
	assert.Contains(t, line, "23505")
	assert.Contains(t, line, "offers_number_key")
	assert.Contains(t, line, "error_chain")
}

func TestWriteErrorSkipsDumpForClientErrors(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: &buf})

	rec := httptest.NewRecorder()
	WriteError(context.Background(), rec, logg, pkgerrors.New(pkgerrors.CodeValidation, "width too small"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, buf.String())
}

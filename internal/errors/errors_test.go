package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredefinedAPIErrors(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, ErrEmptyDataset.StatusCode)
	assert.Equal(t, "EMPTY_DATASET", ErrEmptyDataset.ErrorCode)
	assert.Equal(t, http.StatusInternalServerError, ErrInternalServer.StatusCode)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", "unknown school"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.ErrorCode)
	assert.Equal(t, "unknown school", resp.Error.Details)
}

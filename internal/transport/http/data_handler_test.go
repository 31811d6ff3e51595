package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecdash/internal/dataprocessing"
	apierrors "ecdash/internal/errors"
	"ecdash/internal/services"
	"ecdash/pkg/contracts/domain"
)

// stubDataService returns canned values so handler behavior can be tested
// without touching the filesystem.
type stubDataService struct {
	environmental domain.EnvironmentalTable
	growth        domain.GrowthTable
	summary       *services.SummaryResponse
	warnings      []dataprocessing.Warning
	snapshot      *dataprocessing.Snapshot
	err           error
	csvPayload    string
}

func (s *stubDataService) Environmental(ctx context.Context, school string) (domain.EnvironmentalTable, error) {
	return s.environmental, s.err
}

func (s *stubDataService) Growth(ctx context.Context, school string) (domain.GrowthTable, error) {
	return s.growth, s.err
}

func (s *stubDataService) Summary(ctx context.Context) (*services.SummaryResponse, error) {
	return s.summary, s.err
}

func (s *stubDataService) Warnings(ctx context.Context) ([]dataprocessing.Warning, error) {
	return s.warnings, s.err
}

func (s *stubDataService) Reload(ctx context.Context) (*dataprocessing.Snapshot, error) {
	return s.snapshot, s.err
}

func (s *stubDataService) ExportEnvironmentalCSV(ctx context.Context, w io.Writer, school string) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, s.csvPayload)
	return err
}

func (s *stubDataService) ExportGrowthXLSX(ctx context.Context, w io.Writer, school string, split bool) error {
	return s.err
}

func serve(t *testing.T, stub *stubDataService, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewDataHandler(stub, nil)
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetEnvironmental(t *testing.T) {
	stub := &stubDataService{
		environmental: domain.EnvironmentalTable{
			{School: "송도고", TargetEC: 1.0, Temperature: 23.5},
		},
	}

	rec := serve(t, stub, http.MethodGet, "/datasets/environmental?school=송도고")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
}

func TestGetEnvironmentalValidation(t *testing.T) {
	stub := &stubDataService{err: apierrors.NewValidationError("unknown school \"없는고\"")}

	rec := serve(t, stub, http.MethodGet, "/datasets/environmental?school=없는고")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_FAILED", errObj["error_code"])
}

func TestGetGrowth(t *testing.T) {
	stub := &stubDataService{
		growth: domain.GrowthTable{
			{SpecimenID: "S-01", School: "송도고", TargetEC: 1.0, FreshWeightG: 18.7},
			{SpecimenID: "S-02", School: "송도고", TargetEC: 1.0, FreshWeightG: 17.2},
		},
	}

	rec := serve(t, stub, http.MethodGet, "/datasets/growth")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["count"])
}

func TestGetSummary(t *testing.T) {
	stub := &stubDataService{
		summary: &services.SummaryResponse{
			Growth: []dataprocessing.GrowthSummary{
				{School: "송도고", TargetEC: 1.0, Records: 2, MeanFreshWeightG: 18.0},
			},
			LoadedAt: time.Now(),
		},
	}

	rec := serve(t, stub, http.MethodGet, "/summary")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	growth := body["growth"].([]interface{})
	require.Len(t, growth, 1)
}

func TestGetSummaryEmptyDataset(t *testing.T) {
	stub := &stubDataService{err: dataprocessing.ErrEmptyDataset}

	rec := serve(t, stub, http.MethodGet, "/summary")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "EMPTY_DATASET", errObj["error_code"])
}

func TestGetWarnings(t *testing.T) {
	stub := &stubDataService{
		warnings: []dataprocessing.Warning{
			{School: "하늘고", Dataset: dataprocessing.DatasetEnvironmental, Reason: "file missing"},
		},
	}

	rec := serve(t, stub, http.MethodGet, "/warnings")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decodeBody(t, rec)["count"])
}

func TestReload(t *testing.T) {
	stub := &stubDataService{
		snapshot: &dataprocessing.Snapshot{
			Environmental: domain.EnvironmentalTable{{School: "송도고"}},
			LoadedAt:      time.Now(),
		},
	}

	rec := serve(t, stub, http.MethodPost, "/reload")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["environmental_records"])
	assert.Equal(t, float64(0), body["growth_records"])
}

func TestReloadStorageError(t *testing.T) {
	stub := &stubDataService{err: apierrors.NewStorageError("data directory data does not exist", nil)}

	rec := serve(t, stub, http.MethodPost, "/reload")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	errObj := decodeBody(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "FILESYSTEM_ERROR", errObj["error_code"])
}

func TestExportEnvironmentalCSV(t *testing.T) {
	stub := &stubDataService{csvPayload: "\uFEFFtime,temperature\n"}

	rec := serve(t, stub, http.MethodGet, "/exports/environmental.csv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "environmental.csv")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\uFEFF")))
}

func TestExportEnvironmentalCSVError(t *testing.T) {
	stub := &stubDataService{err: apierrors.NewValidationError("unknown school \"없는고\"")}

	rec := serve(t, stub, http.MethodGet, "/exports/environmental.csv?school=없는고")

	assert.Equal(t, http.StatusBadRequest, rec.Code, "a failed export must not look like a download")
	assert.NotEqual(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	errObj := decodeBody(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_FAILED", errObj["error_code"])
}

func TestExportGrowthXLSXError(t *testing.T) {
	stub := &stubDataService{err: apierrors.NewStorageError("data directory data does not exist", nil)}

	rec := serve(t, stub, http.MethodGet, "/exports/growth.xlsx")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	errObj := decodeBody(t, rec)["error"].(map[string]interface{})
	assert.Equal(t, "FILESYSTEM_ERROR", errObj["error_code"])
}

func TestExportGrowthXLSXHeaders(t *testing.T) {
	stub := &stubDataService{}

	rec := serve(t, stub, http.MethodGet, "/exports/growth.xlsx?split=true")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
}

func TestHealthCheck(t *testing.T) {
	handler := NewHealthHandler("1.0.0")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.0.0", body["version"])
}

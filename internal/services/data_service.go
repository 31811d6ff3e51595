package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"ecdash/internal/config"
	"ecdash/internal/dataprocessing"
	apperrors "ecdash/internal/errors"
	"ecdash/internal/exporter"
	"ecdash/internal/files"
	"ecdash/pkg/contracts/domain"
)

// allSchoolsFilter is the filter value the original dashboard used for "all
// schools"; it is accepted as equivalent to an empty filter.
const allSchoolsFilter = "전체"

// DataService provides cached access to the unified datasets and their
// summaries. All reads within one cache epoch observe the same snapshot.
type DataService struct {
	cfg        *config.Config
	cache      *dataprocessing.Cache
	summarizer *dataprocessing.Summarizer
	logger     *slog.Logger
}

// SummaryResponse is the aggregate view served to the dashboard: the roster
// in display order, grouped statistics, and the best-school designation.
type SummaryResponse struct {
	Schools       []config.School                         `json:"schools"`
	Environmental []dataprocessing.EnvironmentalSummary   `json:"environmental"`
	Growth        []dataprocessing.GrowthSummary          `json:"growth"`
	BestSchool    *dataprocessing.GrowthSummary           `json:"best_school,omitempty"`
	Warnings      []dataprocessing.Warning                `json:"warnings"`
	LoadedAt      time.Time                               `json:"loaded_at"`
}

// NewDataService creates a data service over the given configuration.
func NewDataService(cfg *config.Config, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	loader := dataprocessing.NewLoader(cfg.Paths.DataDir, cfg.Schools, logger)
	return &DataService{
		cfg:        cfg,
		cache:      dataprocessing.NewCache(loader, cfg.Paths.DataDir, logger),
		summarizer: dataprocessing.NewSummarizer(cfg.Schools, logger),
		logger:     logger.With(slog.String("component", "data_service")),
	}
}

// Snapshot returns the current cache epoch, loading if necessary.
func (s *DataService) Snapshot(ctx context.Context) (*dataprocessing.Snapshot, error) {
	start := time.Now()
	snap, err := s.cache.Snapshot(ctx)
	loadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	loadWarnings.Set(float64(len(snap.Warnings)))
	datasetRecords.WithLabelValues(dataprocessing.DatasetEnvironmental).Set(float64(len(snap.Environmental)))
	datasetRecords.WithLabelValues(dataprocessing.DatasetGrowth).Set(float64(len(snap.Growth)))

	return snap, nil
}

// Environmental returns the unified environmental table, optionally filtered
// to one school. An unknown school name is a validation error.
func (s *DataService) Environmental(ctx context.Context, school string) (domain.EnvironmentalTable, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	school, err = s.normalizeFilter(school)
	if err != nil {
		return nil, err
	}
	if school == "" {
		return snap.Environmental, nil
	}
	return snap.Environmental.FilterBySchool(school), nil
}

// Growth returns the unified growth table, optionally filtered to one
// school. An unknown school name is a validation error.
func (s *DataService) Growth(ctx context.Context, school string) (domain.GrowthTable, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	school, err = s.normalizeFilter(school)
	if err != nil {
		return nil, err
	}
	if school == "" {
		return snap.Growth, nil
	}
	return snap.Growth.FilterBySchool(school), nil
}

// Summary returns the aggregate dashboard view. When no school's data could
// be loaded for either category it returns ErrEmptyDataset; callers must
// not aggregate an empty epoch.
func (s *DataService) Summary(ctx context.Context) (*SummaryResponse, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Empty() {
		return nil, dataprocessing.ErrEmptyDataset
	}

	resp := &SummaryResponse{
		Schools:       s.summarizer.Schools(),
		Environmental: s.summarizer.Environmental(snap.Environmental),
		Growth:        s.summarizer.Growth(snap.Growth),
		Warnings:      snap.Warnings,
		LoadedAt:      snap.LoadedAt,
	}
	if best, ok := s.summarizer.BestSchool(resp.Growth); ok {
		resp.BestSchool = &best
	}

	return resp, nil
}

// Warnings returns the per-school load warnings of the current epoch.
func (s *DataService) Warnings(ctx context.Context) ([]dataprocessing.Warning, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap.Warnings == nil {
		return []dataprocessing.Warning{}, nil
	}
	return snap.Warnings, nil
}

// Reload invalidates the cache and loads a fresh snapshot.
func (s *DataService) Reload(ctx context.Context) (*dataprocessing.Snapshot, error) {
	s.logger.InfoContext(ctx, "explicit reload requested")
	s.cache.Invalidate()
	return s.Snapshot(ctx)
}

// ExportEnvironmentalCSV streams the (optionally filtered) environmental
// table to w as a BOM-prefixed CSV.
func (s *DataService) ExportEnvironmentalCSV(ctx context.Context, w io.Writer, school string) error {
	table, err := s.Environmental(ctx, school)
	if err != nil {
		return err
	}
	return exporter.WriteEnvironmentalCSV(w, table)
}

// ExportGrowthXLSX streams the (optionally filtered) growth table to w as a
// workbook, optionally split into per-school sheets plus a combined sheet.
func (s *DataService) ExportGrowthXLSX(ctx context.Context, w io.Writer, school string, split bool) error {
	table, err := s.Growth(ctx, school)
	if err != nil {
		return err
	}
	return exporter.WriteGrowthXLSX(w, table, s.cfg.Schools, split)
}

// normalizeFilter validates a school filter. Empty and the "all schools"
// marker mean no filter. The value is NFC-normalized first, since clients
// may send decomposed Hangul.
func (s *DataService) normalizeFilter(school string) (string, error) {
	school = files.Normalize(school)
	if school == "" || school == allSchoolsFilter {
		return "", nil
	}
	if _, ok := config.FindSchool(s.cfg.Schools, school); !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown school %q", school))
	}
	return school, nil
}

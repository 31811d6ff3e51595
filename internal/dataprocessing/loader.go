package dataprocessing

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ecdash/internal/config"
	apperrors "ecdash/internal/errors"
	"ecdash/internal/files"
	"ecdash/pkg/contracts/domain"
)

// Required column sets, in normalized (trimmed, lowercased) form.
var (
	envRequiredColumns = []string{"time", "temperature", "humidity", "ph", "ec"}

	growthRequiredColumns = []string{
		"개체번호",
		"잎 수(장)",
		"지상부 길이(mm)",
		"지하부길이(mm)",
		"생중량(g)",
	}
)

// growthWorkbookName is the expected name of the growth-results workbook;
// growthWorkbookKey drives the fuzzy fallback.
const (
	growthWorkbookName = "4개교_생육결과데이터.xlsx"
	growthWorkbookKey  = "생육결과"
)

// timestampLayouts are tried in order when parsing environmental timestamps.
// A value matching none of them becomes a missing-value marker, never an
// error.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	"2006-01-02",
}

// Loader reads per-school source files and builds unified datasets. Failures
// scoped to one school become warnings; the other schools always load.
type Loader struct {
	dataDir string
	schools []config.School
	matcher *files.Matcher
	logger  *slog.Logger
}

// NewLoader creates a loader over the given data directory and school roster.
func NewLoader(dataDir string, schools []config.School, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		dataDir: dataDir,
		schools: schools,
		matcher: files.NewMatcher(logger),
		logger:  logger,
	}
}

// Load runs the full ingestion pipeline once and returns a fresh Snapshot.
// Only a missing data directory is fatal.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if info, err := os.Stat(l.dataDir); err != nil || !info.IsDir() {
		return nil, apperrors.NewStorageError(fmt.Sprintf("data directory %s does not exist", l.dataDir), err)
	}

	snap := &Snapshot{LoadedAt: time.Now()}

	for _, school := range l.schools {
		records, err := l.loadEnvironmentalSchool(ctx, school)
		if err != nil {
			snap.Warnings = append(snap.Warnings, l.warn(ctx, school, DatasetEnvironmental, err))
			continue
		}
		snap.Environmental = append(snap.Environmental, records...)
	}

	l.loadGrowth(ctx, snap)

	if snap.Empty() {
		l.logger.WarnContext(ctx, "load produced no data for any school",
			slog.String("data_dir", l.dataDir),
			slog.Int("warnings", len(snap.Warnings)))
	} else {
		l.logger.InfoContext(ctx, "load complete",
			slog.Int("environmental_records", len(snap.Environmental)),
			slog.Int("growth_records", len(snap.Growth)),
			slog.Int("warnings", len(snap.Warnings)))
	}

	return snap, nil
}

// warn converts a per-school failure into a Warning and logs it.
func (l *Loader) warn(ctx context.Context, school config.School, dataset string, err error) Warning {
	l.logger.WarnContext(ctx, "school data unavailable",
		slog.String("school", school.Name),
		slog.String("dataset", dataset),
		slog.String("reason", err.Error()))
	return Warning{School: school.Name, Dataset: dataset, Reason: err.Error()}
}

// loadEnvironmentalSchool resolves and parses one school's sensor CSV,
// tagging every row with the school name and its target EC.
func (l *Loader) loadEnvironmentalSchool(ctx context.Context, school config.School) ([]domain.EnvironmentalRecord, error) {
	path, err := l.matcher.Resolve(l.dataDir, school.Name+".csv", school.Name, ".csv")
	if err != nil {
		if errors.Is(err, files.ErrNoMatch) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("environmental CSV for %s (pattern %s*.csv)", school.Name, school.Name))
		}
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse CSV %s", path), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("CSV %s is empty", path), nil)
	}

	headers := rows[0]
	// Some exports prefix the first header with a UTF-8 BOM.
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}
	index := ColumnIndex(headers)
	if missing := MissingColumns(index, envRequiredColumns); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("%s is missing required columns: %s", path, strings.Join(missing, ", ")), nil)
	}

	records := make([]domain.EnvironmentalRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, domain.EnvironmentalRecord{
			Timestamp:   parseTimestamp(cell(row, index, "time")),
			Temperature: domain.Float(parseFloat(cell(row, index, "temperature"))),
			Humidity:    domain.Float(parseFloat(cell(row, index, "humidity"))),
			PH:          domain.Float(parseFloat(cell(row, index, "ph"))),
			EC:          domain.Float(parseFloat(cell(row, index, "ec"))),
			School:      school.Name,
			TargetEC:    school.TargetEC,
		})
	}

	l.logger.DebugContext(ctx, "environmental data loaded",
		slog.String("school", school.Name),
		slog.String("path", path),
		slog.Int("records", len(records)))

	return records, nil
}

// loadGrowth resolves the growth workbook once and loads each school's sheet
// from it. A missing workbook is one warning per school; a missing or
// invalid sheet is a warning for that school only.
func (l *Loader) loadGrowth(ctx context.Context, snap *Snapshot) {
	path, err := l.matcher.Resolve(l.dataDir, growthWorkbookName, growthWorkbookKey, ".xlsx")
	if err != nil {
		if errors.Is(err, files.ErrNoMatch) {
			err = apperrors.NewNotFoundError(fmt.Sprintf("growth workbook (pattern *%s*.xlsx)", growthWorkbookKey))
		}
		for _, school := range l.schools {
			snap.Warnings = append(snap.Warnings, l.warn(ctx, school, DatasetGrowth, err))
		}
		return
	}

	workbook, err := excelize.OpenFile(path)
	if err != nil {
		openErr := apperrors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
		for _, school := range l.schools {
			snap.Warnings = append(snap.Warnings, l.warn(ctx, school, DatasetGrowth, openErr))
		}
		return
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	for _, school := range l.schools {
		records, err := l.loadGrowthSheet(ctx, workbook, sheets, school)
		if err != nil {
			snap.Warnings = append(snap.Warnings, l.warn(ctx, school, DatasetGrowth, err))
			continue
		}
		snap.Growth = append(snap.Growth, records...)
	}
}

// loadGrowthSheet parses one school's sheet of the growth workbook.
func (l *Loader) loadGrowthSheet(ctx context.Context, workbook *excelize.File, sheets []string, school config.School) ([]domain.GrowthRecord, error) {
	sheet, ok := l.matcher.MatchSheet(sheets, school.Name)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("growth sheet for %s", school.Name))
	}

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %s", sheet), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("sheet %s is empty", sheet), nil)
	}

	index := ColumnIndex(rows[0])
	if missing := MissingColumns(index, growthRequiredColumns); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(
			fmt.Sprintf("sheet %s is missing required columns: %s", sheet, strings.Join(missing, ", ")), nil)
	}

	records := make([]domain.GrowthRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, domain.GrowthRecord{
			SpecimenID:    cell(row, index, "개체번호"),
			LeafCount:     domain.Float(parseFloat(cell(row, index, "잎 수(장)"))),
			ShootLengthMM: domain.Float(parseFloat(cell(row, index, "지상부 길이(mm)"))),
			RootLengthMM:  domain.Float(parseFloat(cell(row, index, "지하부길이(mm)"))),
			FreshWeightG:  domain.Float(parseFloat(cell(row, index, "생중량(g)"))),
			School:        school.Name,
			TargetEC:      school.TargetEC,
		})
	}

	l.logger.DebugContext(ctx, "growth data loaded",
		slog.String("school", school.Name),
		slog.String("sheet", sheet),
		slog.Int("records", len(records)))

	return records, nil
}

// parseTimestamp parses a timestamp value permissively. An unparseable value
// yields nil rather than aborting the row.
func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return &ts
		}
	}
	return nil
}

// parseFloat parses a numeric cell, tolerating thousands separators.
// Unparseable values yield NaN; aggregation skips NaN inputs.
func parseFloat(value string) float64 {
	if value == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// isEmptyRow reports whether every cell of the row is blank.
func isEmptyRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ecdash/internal/config"
	"ecdash/pkg/contracts/domain"
)

// combinedSheetName is the sheet holding all schools' rows.
const combinedSheetName = "전체"

// growthHeaders is the column order of the growth export, matching the
// source workbook's headers plus the school and target-EC tags.
var growthHeaders = []interface{}{
	"개체번호", "잎 수(장)", "지상부 길이(mm)", "지하부길이(mm)", "생중량(g)", "학교", "목표 EC",
}

// GrowthWorkbook builds an xlsx workbook from a growth table. With split
// set, one sheet per school (ascending target EC) precedes the combined
// sheet; otherwise only the combined sheet is written. Schools without rows
// get no sheet.
func GrowthWorkbook(table domain.GrowthTable, schools []config.School, split bool) (*excelize.File, error) {
	f := excelize.NewFile()

	first := true
	addSheet := func(name string, rows domain.GrowthTable) error {
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return err
			}
		}
		return writeGrowthSheet(f, name, rows)
	}

	if split {
		for _, school := range config.SortByTargetEC(schools) {
			rows := table.FilterBySchool(school.Name)
			if len(rows) == 0 {
				continue
			}
			if err := addSheet(school.Name, rows); err != nil {
				return nil, fmt.Errorf("failed to write sheet %s: %w", school.Name, err)
			}
		}
	}

	if err := addSheet(combinedSheetName, table); err != nil {
		return nil, fmt.Errorf("failed to write combined sheet: %w", err)
	}

	return f, nil
}

// WriteGrowthXLSX streams a growth workbook to w.
func WriteGrowthXLSX(w io.Writer, table domain.GrowthTable, schools []config.School, split bool) error {
	f, err := GrowthWorkbook(table, schools, split)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteGrowthXLSXFile writes a growth workbook file, creating parent
// directories as needed.
func WriteGrowthXLSXFile(path string, table domain.GrowthTable, schools []config.School, split bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteGrowthXLSX(file, table, schools, split)
}

// writeGrowthSheet fills one sheet with headers plus the given rows.
func writeGrowthSheet(f *excelize.File, sheet string, rows domain.GrowthTable) error {
	if err := f.SetSheetRow(sheet, "A1", &growthHeaders); err != nil {
		return err
	}
	for i, rec := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.SpecimenID,
			cellValue(rec.LeafCount),
			cellValue(rec.ShootLengthMM),
			cellValue(rec.RootLengthMM),
			cellValue(rec.FreshWeightG),
			rec.School,
			rec.TargetEC,
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return err
		}
	}
	return nil
}

// cellValue maps missing values to empty cells; xlsx has no NaN literal.
func cellValue(f domain.Float) interface{} {
	if f.IsNaN() {
		return ""
	}
	return float64(f)
}

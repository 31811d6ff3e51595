package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ecdash/pkg/contracts/domain"
)

// utf8BOM helps spreadsheet applications recognize UTF-8 content.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes headers and records to w, optionally prefixed with a
// UTF-8 BOM.
func WriteCSV(w io.Writer, headers []string, records [][]string, bom bool) error {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes a BOM-prefixed CSV file, creating parent directories
// as needed.
func WriteCSVFile(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return WriteCSV(file, headers, records, true)
}

// EnvironmentalHeaders returns the column order of the environmental export.
func EnvironmentalHeaders() []string {
	return []string{"time", "temperature", "humidity", "ph", "ec", "school", "target_ec"}
}

// EnvironmentalRows converts the environmental table to CSV rows in export
// column order.
func EnvironmentalRows(table domain.EnvironmentalTable) [][]string {
	rows := make([][]string, 0, len(table))
	for _, rec := range table {
		rows = append(rows, []string{
			formatTimestamp(rec.Timestamp),
			formatFloat(rec.Temperature),
			formatFloat(rec.Humidity),
			formatFloat(rec.PH),
			formatFloat(rec.EC),
			rec.School,
			fmt.Sprintf("%.1f", rec.TargetEC),
		})
	}
	return rows
}

// WriteEnvironmentalCSV writes the environmental table to w as a
// BOM-prefixed CSV.
func WriteEnvironmentalCSV(w io.Writer, table domain.EnvironmentalTable) error {
	return WriteCSV(w, EnvironmentalHeaders(), EnvironmentalRows(table), true)
}

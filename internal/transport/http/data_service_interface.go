package http

import (
	"context"
	"io"

	"ecdash/internal/dataprocessing"
	"ecdash/internal/services"
	"ecdash/pkg/contracts/domain"
)

// DataServiceInterface defines the data service surface the handlers need.
// Kept as an interface so handler tests can substitute a stub.
type DataServiceInterface interface {
	Environmental(ctx context.Context, school string) (domain.EnvironmentalTable, error)
	Growth(ctx context.Context, school string) (domain.GrowthTable, error)
	Summary(ctx context.Context) (*services.SummaryResponse, error)
	Warnings(ctx context.Context) ([]dataprocessing.Warning, error)
	Reload(ctx context.Context) (*dataprocessing.Snapshot, error)
	ExportEnvironmentalCSV(ctx context.Context, w io.Writer, school string) error
	ExportGrowthXLSX(ctx context.Context, w io.Writer, school string, split bool) error
}

// Command report loads the experiment data directory once, prints a summary
// to stdout and writes the combined CSV and Excel exports to the output
// directory. It is the batch counterpart of the web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"ecdash/internal/config"
	"ecdash/internal/dataprocessing"
	"ecdash/internal/exporter"
	"ecdash/internal/infrastructure"
	"ecdash/pkg/contracts/domain"
)

func main() {
	dataDir := flag.String("data", "data", "directory containing the school data files")
	outDir := flag.String("out", "reports", "directory to write exports into")
	schoolsFile := flag.String("schools", "", "optional YAML file overriding the school roster")
	split := flag.Bool("split", true, "write one Excel sheet per school")
	logLevel := flag.String("log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{
		Level:  *logLevel,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	schools := config.DefaultSchools()
	if *schoolsFile != "" {
		schools, err = config.LoadSchools(*schoolsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load school roster: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	loader := dataprocessing.NewLoader(*dataDir, schools, logger)
	snap, err := loader.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *dataDir, err)
		os.Exit(1)
	}
	if snap.Empty() {
		fmt.Fprintf(os.Stderr, "no usable data found in %s\n", *dataDir)
		os.Exit(1)
	}

	summarizer := dataprocessing.NewSummarizer(schools, logger)
	printSummary(summarizer, snap)

	if err := writeExports(*outDir, snap, summarizer, *split); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write exports: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nexports written to %s\n", *outDir)
}

func printSummary(summarizer *dataprocessing.Summarizer, snap *dataprocessing.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "학교\t목표 EC\t평균 온도\t평균 습도\t평균 pH\t평균 EC\t측정 수")
	for _, s := range summarizer.Environmental(snap.Environmental) {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\t%s\t%s\t%d\n",
			s.School, s.TargetEC,
			formatMean(s.MeanTemperature), formatMean(s.MeanHumidity),
			formatMean(s.MeanPH), formatMean(s.MeanEC), s.Records)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "학교\t목표 EC\t평균 잎 수\t평균 지상부\t평균 지하부\t평균 생중량\t개체 수")
	growth := summarizer.Growth(snap.Growth)
	for _, s := range growth {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\t%s\t%s\t%d\n",
			s.School, s.TargetEC,
			formatMean(s.MeanLeafCount), formatMean(s.MeanShootLengthMM),
			formatMean(s.MeanRootLengthMM), formatMean(s.MeanFreshWeightG), s.Records)
	}
	w.Flush()

	if best, ok := summarizer.BestSchool(growth); ok {
		fmt.Printf("\n최고 생중량: %s (%.2fg, 목표 EC %.1f)\n",
			best.School, float64(best.MeanFreshWeightG), best.TargetEC)
	}

	for _, warning := range snap.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s %s: %s\n", warning.School, warning.Dataset, warning.Reason)
	}
}

func formatMean(v domain.Float) string {
	if v.IsNaN() {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(v))
}

func writeExports(outDir string, snap *dataprocessing.Snapshot, summarizer *dataprocessing.Summarizer, split bool) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	// WriteCSVFile always prepends the UTF-8 BOM so the Korean headers
	// survive a double-click open in Excel.
	csvPath := filepath.Join(outDir, "환경데이터_전체.csv")
	rows := exporter.EnvironmentalRows(snap.Environmental)
	if err := exporter.WriteCSVFile(csvPath, exporter.EnvironmentalHeaders(), rows); err != nil {
		return err
	}

	xlsxPath := filepath.Join(outDir, "생육결과_전체.xlsx")
	return exporter.WriteGrowthXLSXFile(xlsxPath, snap.Growth, summarizer.Schools(), split)
}

// Package dataprocessing ingests per-school sensor and growth data into
// unified, analysis-ready datasets.
//
// # Architecture
//
// The package is organized into four components:
//
//  1. Normalizer: standardizes column headers and validates required sets
//  2. Loader: reads one CSV or workbook sheet per school, tags rows with
//     school identity and target EC, and collects per-school results
//  3. Summarizer: grouped means and counts by school, EC-ascending ordering,
//     best-school selection
//  4. Cache: memoizes the full load per state of the data directory
//
// # Data flow
//
//	data dir → Matcher → Loader → Normalizer → tagged tables → Snapshot → Summarizer
//
// # Failure model
//
// Any failure scoped to one school (file or sheet missing, unreadable
// content, missing required columns) is converted to a Warning on the
// Snapshot and never aborts the other schools. Only a missing data directory
// is fatal for the whole load. Consumers must treat a Snapshot with both
// tables empty as unusable before aggregating.
package dataprocessing

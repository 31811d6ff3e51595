package domain

import (
	"time"
)

// EnvironmentalRecord represents one sensor reading from a school's growing
// environment. Timestamp is nil when the source value could not be parsed;
// the rest of the row is still usable.
type EnvironmentalRecord struct {
	Timestamp   *time.Time `json:"timestamp"`
	Temperature Float      `json:"temperature"`
	Humidity    Float      `json:"humidity"`
	PH          Float      `json:"ph"`
	EC          Float      `json:"ec"`
	School      string     `json:"school" validate:"required"`
	TargetEC    float64    `json:"target_ec"`
}

// EnvironmentalTable is the unified, analysis-ready environmental dataset.
// It is read-only after construction; derived views must copy.
type EnvironmentalTable []EnvironmentalRecord

// FilterBySchool returns a new table holding only the rows tagged with the
// given school. The receiver is never mutated.
func (t EnvironmentalTable) FilterBySchool(school string) EnvironmentalTable {
	filtered := make(EnvironmentalTable, 0, len(t))
	for _, rec := range t {
		if rec.School == school {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

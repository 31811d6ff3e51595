package domain

// GrowthRecord represents one plant measurement taken at harvest.
// Numeric fields that could not be parsed hold NaN and are skipped by
// aggregation.
type GrowthRecord struct {
	SpecimenID    string  `json:"specimen_id"`
	LeafCount     Float   `json:"leaf_count"`
	ShootLengthMM Float   `json:"shoot_length_mm"`
	RootLengthMM  Float   `json:"root_length_mm"`
	FreshWeightG  Float   `json:"fresh_weight_g"`
	School        string  `json:"school" validate:"required"`
	TargetEC      float64 `json:"target_ec"`
}

// GrowthTable is the unified, analysis-ready growth dataset.
// It is read-only after construction; derived views must copy.
type GrowthTable []GrowthRecord

// FilterBySchool returns a new table holding only the rows tagged with the
// given school. The receiver is never mutated.
func (t GrowthTable) FilterBySchool(school string) GrowthTable {
	filtered := make(GrowthTable, 0, len(t))
	for _, rec := range t {
		if rec.School == school {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

package dataprocessing

import (
	"log/slog"
	"math"

	"ecdash/internal/config"
	"ecdash/pkg/contracts/domain"
)

// EnvironmentalSummary aggregates one school's sensor readings.
type EnvironmentalSummary struct {
	School          string       `json:"school"`
	TargetEC        float64      `json:"target_ec"`
	Records         int          `json:"records"`
	MeanTemperature domain.Float `json:"mean_temperature"`
	MeanHumidity    domain.Float `json:"mean_humidity"`
	MeanPH          domain.Float `json:"mean_ph"`
	MeanEC          domain.Float `json:"mean_ec"`
}

// GrowthSummary aggregates one school's growth measurements.
type GrowthSummary struct {
	School            string       `json:"school"`
	TargetEC          float64      `json:"target_ec"`
	Records           int          `json:"records"`
	MeanLeafCount     domain.Float `json:"mean_leaf_count"`
	MeanShootLengthMM domain.Float `json:"mean_shoot_length_mm"`
	MeanRootLengthMM  domain.Float `json:"mean_root_length_mm"`
	MeanFreshWeightG  domain.Float `json:"mean_fresh_weight_g"`
}

// Summarizer computes grouped statistics over unified tables. Output order
// is always ascending target EC, ties broken by name; schools with no
// records are omitted from the grouped results.
type Summarizer struct {
	schools []config.School
	logger  *slog.Logger
}

// NewSummarizer creates a summarizer for the given school roster.
func NewSummarizer(schools []config.School, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		schools: config.SortByTargetEC(schools),
		logger:  logger,
	}
}

// Environmental returns per-school means and counts for the environmental
// table, in display order. An empty table yields an empty slice.
func (s *Summarizer) Environmental(table domain.EnvironmentalTable) []EnvironmentalSummary {
	grouped := make(map[string]domain.EnvironmentalTable)
	for _, rec := range table {
		grouped[rec.School] = append(grouped[rec.School], rec)
	}

	summaries := make([]EnvironmentalSummary, 0, len(grouped))
	for _, school := range s.schools {
		records := grouped[school.Name]
		if len(records) == 0 {
			continue
		}
		var temperature, humidity, ph, ec meanAccumulator
		for _, rec := range records {
			temperature.Add(rec.Temperature)
			humidity.Add(rec.Humidity)
			ph.Add(rec.PH)
			ec.Add(rec.EC)
		}
		summaries = append(summaries, EnvironmentalSummary{
			School:          school.Name,
			TargetEC:        school.TargetEC,
			Records:         len(records),
			MeanTemperature: temperature.Mean(),
			MeanHumidity:    humidity.Mean(),
			MeanPH:          ph.Mean(),
			MeanEC:          ec.Mean(),
		})
	}

	return summaries
}

// Growth returns per-school means and counts for the growth table, in
// display order. An empty table yields an empty slice.
func (s *Summarizer) Growth(table domain.GrowthTable) []GrowthSummary {
	grouped := make(map[string]domain.GrowthTable)
	for _, rec := range table {
		grouped[rec.School] = append(grouped[rec.School], rec)
	}

	summaries := make([]GrowthSummary, 0, len(grouped))
	for _, school := range s.schools {
		records := grouped[school.Name]
		if len(records) == 0 {
			continue
		}
		var leaves, shoot, root, weight meanAccumulator
		for _, rec := range records {
			leaves.Add(rec.LeafCount)
			shoot.Add(rec.ShootLengthMM)
			root.Add(rec.RootLengthMM)
			weight.Add(rec.FreshWeightG)
		}
		summaries = append(summaries, GrowthSummary{
			School:            school.Name,
			TargetEC:          school.TargetEC,
			Records:           len(records),
			MeanLeafCount:     leaves.Mean(),
			MeanShootLengthMM: shoot.Mean(),
			MeanRootLengthMM:  root.Mean(),
			MeanFreshWeightG:  weight.Mean(),
		})
	}

	return summaries
}

// BestSchool returns the growth summary with the highest mean fresh weight.
// The second return is false when no school has a usable fresh-weight mean;
// callers must handle that case without designating a best school.
func (s *Summarizer) BestSchool(summaries []GrowthSummary) (GrowthSummary, bool) {
	best := GrowthSummary{}
	found := false
	for _, summary := range summaries {
		if summary.Records == 0 || summary.MeanFreshWeightG.IsNaN() {
			continue
		}
		if !found || summary.MeanFreshWeightG > best.MeanFreshWeightG {
			best = summary
			found = true
		}
	}
	return best, found
}

// Schools returns the roster in display order (ascending target EC).
func (s *Summarizer) Schools() []config.School {
	return s.schools
}

// meanAccumulator computes a mean over the non-NaN values fed to it,
// matching how the source analysis treated missing numeric cells.
type meanAccumulator struct {
	sum float64
	n   int
}

func (a *meanAccumulator) Add(v domain.Float) {
	if v.IsNaN() {
		return
	}
	a.sum += float64(v)
	a.n++
}

// Mean returns NaN when no valid value was added.
func (a *meanAccumulator) Mean() domain.Float {
	if a.n == 0 {
		return domain.Float(math.NaN())
	}
	return domain.Float(a.sum / float64(a.n))
}

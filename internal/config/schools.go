package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"
)

// School describes one participating school: its name, the target EC of its
// nutrient solution, and the display color reserved for it. The roster is
// immutable once loaded and is passed explicitly into the loader and
// summarizer so tests can substitute alternate sets.
type School struct {
	Name     string  `yaml:"name" json:"name" validate:"required"`
	TargetEC float64 `yaml:"target_ec" json:"target_ec" validate:"gt=0"`
	Color    string  `yaml:"color" json:"color"`
}

// DefaultSchools returns the four-school experiment roster.
func DefaultSchools() []School {
	return []School{
		{Name: "송도고", TargetEC: 1.0, Color: "#1f77b4"},
		{Name: "하늘고", TargetEC: 2.0, Color: "#ff7f0e"},
		{Name: "아라고", TargetEC: 4.0, Color: "#2ca02c"},
		{Name: "동산고", TargetEC: 8.0, Color: "#d62728"},
	}
}

// LoadSchools reads a school roster from a YAML file.
func LoadSchools(path string) ([]School, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schools file %s: %w", path, err)
	}

	var schools []School
	if err := yaml.Unmarshal(data, &schools); err != nil {
		return nil, fmt.Errorf("failed to parse schools file %s: %w", path, err)
	}
	if len(schools) == 0 {
		return nil, fmt.Errorf("schools file %s defines no schools", path)
	}

	return schools, nil
}

// SortByTargetEC returns a copy of the roster ordered by ascending target EC,
// ties broken by name. This is the display ordering contract for all
// per-school output.
func SortByTargetEC(schools []School) []School {
	sorted := make([]School, len(schools))
	copy(sorted, schools)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TargetEC != sorted[j].TargetEC {
			return sorted[i].TargetEC < sorted[j].TargetEC
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// FindSchool looks a school up by name.
func FindSchool(schools []School, name string) (School, bool) {
	for _, s := range schools {
		if s.Name == name {
			return s, true
		}
	}
	return School{}, false
}

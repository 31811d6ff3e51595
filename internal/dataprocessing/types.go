package dataprocessing

import (
	"errors"
	"time"

	"ecdash/pkg/contracts/domain"
)

// Dataset names used in warnings and metrics.
const (
	DatasetEnvironmental = "environmental"
	DatasetGrowth        = "growth"
)

// ErrEmptyDataset is reported when no school's data could be loaded for
// either category. Consumers must stop before aggregating.
var ErrEmptyDataset = errors.New("no school data could be loaded")

// Warning describes a non-fatal per-school load failure. The school is
// simply absent from the unified table.
type Warning struct {
	School  string `json:"school"`
	Dataset string `json:"dataset"`
	Reason  string `json:"reason"`
}

// Snapshot is one fully loaded cache epoch: both unified tables plus the
// warnings produced while building them. A snapshot is read-only after
// construction; every consumer within one epoch observes the same instance.
type Snapshot struct {
	Environmental domain.EnvironmentalTable `json:"environmental"`
	Growth        domain.GrowthTable        `json:"growth"`
	Warnings      []Warning                 `json:"warnings"`
	LoadedAt      time.Time                 `json:"loaded_at"`
	Fingerprint   string                    `json:"-"`
}

// Empty reports whether no data at all was loaded.
func (s *Snapshot) Empty() bool {
	return len(s.Environmental) == 0 && len(s.Growth) == 0
}

package domain

import (
	"encoding/json"
	"math"
)

// Float is a float64 whose JSON form is null when the value is NaN. Missing
// or unparseable numeric cells are carried as NaN internally; this keeps
// them representable at the API boundary.
type Float float64

// IsNaN reports whether the value marks a missing cell.
func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if f.IsNaN() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// UnmarshalJSON implements json.Unmarshaler; null becomes NaN.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

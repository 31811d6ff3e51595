package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatMarshalNaN(t *testing.T) {
	rec := EnvironmentalRecord{
		Temperature: Float(math.NaN()),
		Humidity:    61.2,
		School:      "송도고",
		TargetEC:    1.0,
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err, "NaN cells must not break JSON encoding")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["temperature"], "NaN serializes as null")
	assert.Equal(t, 61.2, decoded["humidity"])
}

func TestFloatUnmarshal(t *testing.T) {
	var f Float
	require.NoError(t, json.Unmarshal([]byte("null"), &f))
	assert.True(t, f.IsNaN())

	require.NoError(t, json.Unmarshal([]byte("6.1"), &f))
	assert.Equal(t, Float(6.1), f)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
}

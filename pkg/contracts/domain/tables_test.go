package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterBySchool(t *testing.T) {
	table := GrowthTable{
		{SpecimenID: "S-01", School: "송도고"},
		{SpecimenID: "H-01", School: "하늘고"},
		{SpecimenID: "S-02", School: "송도고"},
	}

	filtered := table.FilterBySchool("송도고")
	assert.Len(t, filtered, 2)
	assert.Len(t, table, 3, "the source table is untouched")

	assert.Empty(t, table.FilterBySchool("아라고"))
}

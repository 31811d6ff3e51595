package exporter

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ecdash/internal/config"
	"ecdash/pkg/contracts/domain"
)

var exportSchools = []config.School{
	{Name: "하늘고", TargetEC: 2.0},
	{Name: "송도고", TargetEC: 1.0},
}

func growthTable() domain.GrowthTable {
	return domain.GrowthTable{
		{SpecimenID: "S-01", LeafCount: 12, ShootLengthMM: 185, RootLengthMM: 92, FreshWeightG: 18.7, School: "송도고", TargetEC: 1.0},
		{SpecimenID: "H-01", LeafCount: 10, ShootLengthMM: 160, RootLengthMM: domain.Float(math.NaN()), FreshWeightG: 14.9, School: "하늘고", TargetEC: 2.0},
	}
}

func reopen(t *testing.T, table domain.GrowthTable, split bool) *excelize.File {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, WriteGrowthXLSX(&buf, table, exportSchools, split))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGrowthWorkbookCombined(t *testing.T) {
	f := reopen(t, growthTable(), false)

	assert.Equal(t, []string{"전체"}, f.GetSheetList())

	rows, err := f.GetRows("전체")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t,
		[]string{"개체번호", "잎 수(장)", "지상부 길이(mm)", "지하부길이(mm)", "생중량(g)", "학교", "목표 EC"},
		rows[0])
	assert.Equal(t, "S-01", rows[1][0])
	assert.Equal(t, "송도고", rows[1][5])
	assert.Equal(t, "", rows[2][3], "NaN becomes an empty cell")
}

func TestGrowthWorkbookSplit(t *testing.T) {
	f := reopen(t, growthTable(), true)

	assert.Equal(t, []string{"송도고", "하늘고", "전체"}, f.GetSheetList(),
		"per-school sheets in ascending target EC, combined sheet last")

	rows, err := f.GetRows("송도고")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "S-01", rows[1][0])

	rows, err = f.GetRows("전체")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestGrowthWorkbookSplitSkipsEmptySchools(t *testing.T) {
	table := domain.GrowthTable{growthTable()[0]}
	f := reopen(t, table, true)

	assert.Equal(t, []string{"송도고", "전체"}, f.GetSheetList())
}

func TestGrowthWorkbookEmptyTable(t *testing.T) {
	f := reopen(t, nil, true)

	assert.Equal(t, []string{"전체"}, f.GetSheetList(),
		"an empty table still yields a header-only combined sheet")

	rows, err := f.GetRows("전체")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

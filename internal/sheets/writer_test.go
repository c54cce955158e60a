package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/luxvance/instantly-reporter/internal/report"
)

func sampleTable() report.Table {
	return report.Table{
		Name: "Sample",
		Rows: []report.Row{
			{Kind: report.RowTitle, Cells: []string{"Title"}},
			{Kind: report.RowSpacer},
			{Kind: report.RowSectionHeader, Cells: []string{"Section"}},
			{Kind: report.RowColumnHeader, Cells: []string{"A", "B"}},
			{Kind: report.RowData, Cells: []string{"r1", "1"}},
			{Kind: report.RowData, Cells: []string{"r2", "2"}},
			{Kind: report.RowSubtotal, Cells: []string{"SUB", "3"}},
			{Kind: report.RowGrandTotal, Cells: []string{"GRAND", "3"}},
		},
	}
}

func requestsByRow(reqs []*sheetsapi.Request) map[int64]*sheetsapi.RepeatCellRequest {
	out := make(map[int64]*sheetsapi.RepeatCellRequest)
	for _, r := range reqs {
		if r.RepeatCell != nil {
			out[r.RepeatCell.Range.StartRowIndex] = r.RepeatCell
		}
	}
	return out
}

func TestBuildStyleRequestsRowRoles(t *testing.T) {
	p := DefaultPalette()
	layout := TabLayout{Columns: 2, AlternateDataRows: true, MergeTitleAcross: true}
	reqs := buildStyleRequests(7, sampleTable(), layout, p)
	byRow := requestsByRow(reqs)

	title := byRow[0]
	require.NotNil(t, title)
	assert.Equal(t, p.Black, title.Cell.UserEnteredFormat.BackgroundColor)
	assert.Equal(t, p.Gold, title.Cell.UserEnteredFormat.TextFormat.ForegroundColor)
	assert.True(t, title.Cell.UserEnteredFormat.TextFormat.Bold)

	section := byRow[2]
	require.NotNil(t, section)
	assert.Equal(t, p.SubheaderGray, section.Cell.UserEnteredFormat.BackgroundColor)

	header := byRow[3]
	require.NotNil(t, header)
	assert.Equal(t, p.White, header.Cell.UserEnteredFormat.TextFormat.ForegroundColor)

	// Alternating stripes: first data row plain, second striped.
	_, firstStriped := byRow[4]
	assert.False(t, firstStriped)
	second := byRow[5]
	require.NotNil(t, second)
	assert.Equal(t, p.AltRow, second.Cell.UserEnteredFormat.BackgroundColor)

	subtotal := byRow[6]
	require.NotNil(t, subtotal)
	assert.Equal(t, p.Wheat, subtotal.Cell.UserEnteredFormat.BackgroundColor)

	grand := byRow[7]
	require.NotNil(t, grand)
	assert.Equal(t, p.Gold, grand.Cell.UserEnteredFormat.TextFormat.ForegroundColor)
}

func TestBuildStyleRequestsGoldSections(t *testing.T) {
	p := DefaultPalette()
	reqs := buildStyleRequests(1, sampleTable(), TabLayout{Columns: 2, GoldSections: true}, p)
	section := requestsByRow(reqs)[2]
	require.NotNil(t, section)
	assert.Equal(t, p.WeekGold, section.Cell.UserEnteredFormat.BackgroundColor)
	assert.Equal(t, p.Black, section.Cell.UserEnteredFormat.TextFormat.ForegroundColor)
}

func TestBuildStyleRequestsMergesTitle(t *testing.T) {
	reqs := buildStyleRequests(1, sampleTable(), TabLayout{Columns: 2, MergeTitleAcross: true}, DefaultPalette())
	merged := false
	for _, r := range reqs {
		if r.MergeCells != nil {
			merged = true
			assert.Equal(t, int64(0), r.MergeCells.Range.StartRowIndex)
			assert.Equal(t, "MERGE_ALL", r.MergeCells.MergeType)
		}
	}
	assert.True(t, merged)
}

func TestBuildStyleRequestsFrozenRowsAndWideColumn(t *testing.T) {
	layout := TabLayout{Columns: 2, FrozenRows: 2, WideColumn: 0, WideColumnPx: 250}
	reqs := buildStyleRequests(1, sampleTable(), layout, DefaultPalette())

	var gotFrozen, gotWide bool
	for _, r := range reqs {
		if r.UpdateSheetProperties != nil {
			gotFrozen = true
			assert.Equal(t, int64(2), r.UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)
		}
		if r.UpdateDimensionProperties != nil {
			gotWide = true
			assert.Equal(t, int64(250), r.UpdateDimensionProperties.Properties.PixelSize)
		}
	}
	assert.True(t, gotFrozen)
	assert.True(t, gotWide)
}

func TestPaletteColorsForceSendZeroComponents(t *testing.T) {
	p := DefaultPalette()
	// Black is all zeros; without ForceSendFields the API would treat it
	// as unset and fall back to white.
	assert.ElementsMatch(t, []string{"Red", "Green", "Blue"}, p.Black.ForceSendFields)
	assert.Zero(t, p.Black.Red)
	assert.InDelta(t, 0.831, p.Gold.Red, 0.001)
}

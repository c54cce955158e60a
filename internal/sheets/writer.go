// Package sheets writes report tables to Google Sheets tabs, applying the
// house black/gold styling from row role tags.
package sheets

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2/google"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"github.com/luxvance/instantly-reporter/internal/report"
)

// Palette is the immutable color scheme applied to every tab. Callers
// construct one (usually DefaultPalette) and hand it to the writer; the
// writer never mutates it.
type Palette struct {
	Black         *sheetsapi.Color
	Gold          *sheetsapi.Color
	White         *sheetsapi.Color
	SubheaderGray *sheetsapi.Color
	WeekGold      *sheetsapi.Color
	Wheat         *sheetsapi.Color
	GrandDark     *sheetsapi.Color
	AltRow        *sheetsapi.Color
}

// DefaultPalette is the black/gold house scheme.
func DefaultPalette() Palette {
	return Palette{
		Black:         rgb(0, 0, 0),
		Gold:          rgb(0.831, 0.686, 0.216), // #D4AF37
		White:         rgb(1, 1, 1),
		SubheaderGray: rgb(0.2, 0.2, 0.2),       // #333333
		WeekGold:      rgb(1, 0.949, 0.8),       // #FFF2CC
		Wheat:         rgb(0.957, 0.871, 0.702), // #F4DEB3
		GrandDark:     rgb(0.102, 0.102, 0.102), // #1A1A1A
		AltRow:        rgb(0.98, 0.98, 0.98),    // #FAFAFA
	}
}

// rgb builds a color with zero components explicitly serialized, which the
// Sheets API requires to distinguish black from unset.
func rgb(r, g, b float64) *sheetsapi.Color {
	return &sheetsapi.Color{
		Red:             r,
		Green:           g,
		Blue:            b,
		ForceSendFields: []string{"Red", "Green", "Blue"},
	}
}

// TabLayout carries per-tab formatting knobs beyond the row roles.
// GoldSections picks the week-gold section style (campaigns tab) over
// the dark subheader style (dashboard).
type TabLayout struct {
	Columns           int
	FrozenRows        int64
	WideColumn        int64 // zero-based index of the label column
	WideColumnPx      int64
	MergeTitleAcross  bool
	AlternateDataRows bool
	GoldSections      bool
}

// Writer pushes tables into one spreadsheet.
type Writer struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	palette       Palette
}

// NewWriter authenticates with a service-account JSON key file and opens
// the spreadsheet client.
func NewWriter(ctx context.Context, credentialsFile, spreadsheetID string, palette Palette) (*Writer, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheets credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Writer{svc: svc, spreadsheetID: spreadsheetID, palette: palette}, nil
}

// WriteTab replaces the named tab with the table's rows and styling. An
// existing tab with the same name is deleted first so stale rows and
// formats never survive a shrinking report.
func (w *Writer) WriteTab(ctx context.Context, table report.Table, layout TabLayout) error {
	if err := w.deleteTabIfExists(ctx, table.Name); err != nil {
		return err
	}

	addResp, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: table.Name},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", table.Name, err)
	}
	sheetID := addResp.Replies[0].AddSheet.Properties.SheetId

	values := make([][]interface{}, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]interface{}, layout.Columns)
		for j := 0; j < layout.Columns; j++ {
			if j < len(row.Cells) {
				cells[j] = row.Cells[j]
			} else {
				cells[j] = ""
			}
		}
		values[i] = cells
	}

	_, err = w.svc.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("'%s'!A1", table.Name), &sheetsapi.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write values to %q: %w", table.Name, err)
	}

	reqs := buildStyleRequests(sheetID, table, layout, w.palette)
	if len(reqs) > 0 {
		_, err = w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: reqs,
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to style %q: %w", table.Name, err)
		}
	}

	log.Printf("  wrote tab %q (%d rows)", table.Name, len(table.Rows))
	return nil
}

func (w *Writer) deleteTabIfExists(ctx context.Context, name string) error {
	meta, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties.Title != name {
			continue
		}
		_, err = w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
			Requests: []*sheetsapi.Request{{
				DeleteSheet: &sheetsapi.DeleteSheetRequest{SheetId: s.Properties.SheetId},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to delete existing sheet %q: %w", name, err)
		}
		return nil
	}
	return nil
}

// Reorder moves the named tabs to the front of the spreadsheet in the
// given order. Tabs not present are skipped.
func (w *Writer) Reorder(ctx context.Context, names []string) error {
	meta, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet metadata: %w", err)
	}
	ids := make(map[string]int64)
	for _, s := range meta.Sheets {
		ids[s.Properties.Title] = s.Properties.SheetId
	}

	var reqs []*sheetsapi.Request
	index := int64(0)
	for _, name := range names {
		id, ok := ids[name]
		if !ok {
			continue
		}
		reqs = append(reqs, &sheetsapi.Request{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{SheetId: id, Index: index},
				Fields:     "index",
			},
		})
		index++
	}
	if len(reqs) == 0 {
		return nil
	}
	_, err = w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to reorder tabs: %w", err)
	}
	return nil
}

// buildStyleRequests derives the formatting requests for a table from its
// row roles, the layout and the palette. It is pure so the mapping can be
// tested without a live spreadsheet.
func buildStyleRequests(sheetID int64, table report.Table, layout TabLayout, p Palette) []*sheetsapi.Request {
	cols := int64(layout.Columns)
	var reqs []*sheetsapi.Request

	rowRange := func(i int) *sheetsapi.GridRange {
		return &sheetsapi.GridRange{
			SheetId:          sheetID,
			StartRowIndex:    int64(i),
			EndRowIndex:      int64(i + 1),
			StartColumnIndex: 0,
			EndColumnIndex:   cols,
		}
	}
	format := func(i int, bg, fg *sheetsapi.Color, bold bool, size int64) *sheetsapi.Request {
		return &sheetsapi.Request{
			RepeatCell: &sheetsapi.RepeatCellRequest{
				Range: rowRange(i),
				Cell: &sheetsapi.CellData{
					UserEnteredFormat: &sheetsapi.CellFormat{
						BackgroundColor: bg,
						TextFormat: &sheetsapi.TextFormat{
							ForegroundColor: fg,
							Bold:            bold,
							FontSize:        size,
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		}
	}

	dataStripe := false
	for i, row := range table.Rows {
		switch row.Kind {
		case report.RowTitle:
			reqs = append(reqs, format(i, p.Black, p.Gold, true, 14))
			if layout.MergeTitleAcross {
				reqs = append(reqs, &sheetsapi.Request{
					MergeCells: &sheetsapi.MergeCellsRequest{
						Range:     rowRange(i),
						MergeType: "MERGE_ALL",
					},
				})
			}
		case report.RowSectionHeader:
			if layout.GoldSections {
				reqs = append(reqs, format(i, p.WeekGold, p.Black, true, 11))
			} else {
				reqs = append(reqs, format(i, p.SubheaderGray, p.White, true, 11))
			}
		case report.RowColumnHeader:
			reqs = append(reqs, format(i, p.Black, p.White, true, 10))
		case report.RowSubtotal:
			reqs = append(reqs, format(i, p.Wheat, p.Black, true, 10))
		case report.RowGrandTotal:
			reqs = append(reqs, format(i, p.GrandDark, p.Gold, true, 11))
		case report.RowData:
			if layout.AlternateDataRows && dataStripe {
				reqs = append(reqs, format(i, p.AltRow, p.Black, false, 10))
			}
			dataStripe = !dataStripe
		case report.RowSpacer:
			dataStripe = false
		}
	}

	if layout.FrozenRows > 0 {
		reqs = append(reqs, &sheetsapi.Request{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheetsapi.GridProperties{
						FrozenRowCount: layout.FrozenRows,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		})
	}

	if layout.WideColumnPx > 0 {
		reqs = append(reqs, &sheetsapi.Request{
			UpdateDimensionProperties: &sheetsapi.UpdateDimensionPropertiesRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: layout.WideColumn,
					EndIndex:   layout.WideColumn + 1,
				},
				Properties: &sheetsapi.DimensionProperties{PixelSize: layout.WideColumnPx},
				Fields:     "pixelSize",
			},
		})
	}

	return reqs
}

// Package report renders a month's grid as an Excel workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"leltar/internal/snapshots"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/xuri/excelize/v2"
)

const (
	transfersSheet = "Átvezetések"
	headerRows     = 2
	columnsPerWH   = 3
)

var quantityHeadings = []string{"Elméleti", "Tényleges", "Eltérés"}

type styles struct {
	header    int
	highlight int
}

func newStyles(f *excelize.File) (styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return styles{}, err
	}
	highlight, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return styles{}, err
	}
	return styles{header: header, highlight: highlight}, nil
}

// SheetName is the name of the grid sheet for month.
func SheetName(month metadata.Month) string {
	return month.String()
}

// Write renders grid on one sheet, warehouses side by side, and the month's
// transfers on a second sheet. Highlighted differences get a red fill.
func Write(w io.Writer, grid snapshots.Grid, transfers []models.Transfer) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	sheet := SheetName(grid.Month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := writeGrid(f, sheet, st, grid); err != nil {
		return fmt.Errorf("write grid: %w", err)
	}

	if _, err := f.NewSheet(transfersSheet); err != nil {
		return err
	}
	if err := writeTransfers(f, st, transfers); err != nil {
		return fmt.Errorf("write transfers: %w", err)
	}

	return f.Write(w)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeGrid(f *excelize.File, sheet string, st styles, grid snapshots.Grid) error {
	if err := f.SetCellValue(sheet, "A1", "Termék"); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", "A2"); err != nil {
		return err
	}

	for i, wh := range grid.Warehouses {
		first := 2 + i*columnsPerWH
		if err := f.SetCellValue(sheet, cell(first, 1), string(wh)); err != nil {
			return err
		}
		if err := f.MergeCell(sheet, cell(first, 1), cell(first+columnsPerWH-1, 1)); err != nil {
			return err
		}
		for j, heading := range quantityHeadings {
			if err := f.SetCellValue(sheet, cell(first+j, 2), heading); err != nil {
				return err
			}
		}
	}
	lastCol := 1 + len(grid.Warehouses)*columnsPerWH
	if err := f.SetCellStyle(sheet, "A1", cell(lastCol, headerRows), st.header); err != nil {
		return err
	}

	for r, row := range grid.Rows {
		rowNo := headerRows + 1 + r
		if err := f.SetCellValue(sheet, cell(1, rowNo), row.Name); err != nil {
			return err
		}
		for i, wh := range grid.Warehouses {
			c, ok := row.Cells[wh]
			if !ok {
				continue
			}
			first := 2 + i*columnsPerWH
			values := []float64{c.Theoretical.InexactFloat64(), c.Actual.InexactFloat64(), c.Difference.InexactFloat64()}
			for j, v := range values {
				if err := f.SetCellValue(sheet, cell(first+j, rowNo), v); err != nil {
					return err
				}
			}
			if c.Highlight {
				diff := cell(first+2, rowNo)
				if err := f.SetCellStyle(sheet, diff, diff, st.highlight); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      headerRows,
		TopLeftCell: cell(2, headerRows+1),
		ActivePane:  "bottomRight",
	})
}

func writeTransfers(f *excelize.File, st styles, transfers []models.Transfer) error {
	headings := []interface{}{"ID", "Időpont", "Honnan", "Hova", "Termék", "Mennyiség", "Felhasználó"}
	if err := f.SetSheetRow(transfersSheet, "A1", &headings); err != nil {
		return err
	}
	if err := f.SetCellStyle(transfersSheet, "A1", cell(len(headings), 1), st.header); err != nil {
		return err
	}

	for i, t := range transfers {
		product := t.ProductName
		if product == "" {
			product = fmt.Sprintf("#%d", t.ProductID)
		}
		values := []interface{}{
			t.ID,
			t.Timestamp.UTC().Format(time.DateOnly),
			string(t.FromWarehouse),
			string(t.ToWarehouse),
			product,
			t.Quantity.InexactFloat64(),
			t.User,
		}
		if err := f.SetSheetRow(transfersSheet, cell(1, i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

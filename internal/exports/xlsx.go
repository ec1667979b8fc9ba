package exports

import (
	"fmt"
	"io"
	"strconv"

	"salescrm_backend/internal/leads/transport"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName = "Today Queue"
	scoreCol  = 3
)

var columnWidths = []float64{30, 30, 8, 24, 14, 24, 36, 16, 60, 22, 28, 18, 22, 18}

// WriteXLSX writes the queue as a single-sheet workbook with a styled header
// row. The score column is stored as a number.
func WriteXLSX(w io.Writer, items []transport.QueueItem) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if col < len(columnWidths) {
			if err := f.SetColWidth(SheetName, name, name, columnWidths[col]); err != nil {
				return fmt.Errorf("set column width: %w", err)
			}
		}
	}

	for i, item := range items {
		for col, value := range Row(item) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			var v any = value
			if col+1 == scoreCol {
				v, _ = strconv.Atoi(value)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

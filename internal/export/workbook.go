package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"relatoriomei/internal/core"
)

// WorkbookContentType is the content type of WriteWorkbook output.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookSheet is the only sheet of the exported workbook.
const WorkbookSheet = "Resumo"

// amountColumns are the 1-based columns of SummaryHeader holding amounts.
var amountColumns = []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

// WriteWorkbook writes the all-periods layout as an XLSX workbook. Amount
// cells are numeric so the spreadsheet can sum them.
func WriteWorkbook(w io.Writer, profile core.Profile, reports []core.PeriodReport) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), WorkbookSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	for _, cells := range summaryPreamble(profile) {
		if err := setRow(wb, row, cells, false); err != nil {
			return err
		}
		row++
	}
	headerRow := row - 1
	for _, pr := range reports {
		if err := setRow(wb, row, SummaryRow(pr), true); err != nil {
			return err
		}
		row++
	}
	row++
	if err := setRow(wb, row, SummaryTotalsRow(reports), true); err != nil {
		return err
	}

	if err := styleWorkbook(wb, headerRow, row); err != nil {
		return err
	}
	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(wb *excelize.File, row int, cells []string, numeric bool) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		var value any = v
		if numeric && i > 0 && i < 11 && v != "" {
			f, _ := core.ParseAmount(v).Float64()
			value = f
		}
		if err := wb.SetCellValue(WorkbookSheet, cell, value); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}

func styleWorkbook(wb *excelize.File, headerRow, lastRow int) error {
	bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	money, err := wb.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create amount style: %w", err)
	}

	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(SummaryHeader), headerRow)
	if err := wb.SetCellStyle(WorkbookSheet, first, last, bold); err != nil {
		return err
	}
	if err := wb.SetCellStyle(WorkbookSheet, "A1", "A1", bold); err != nil {
		return err
	}
	if lastRow > headerRow {
		from, _ := excelize.CoordinatesToCellName(amountColumns[0], headerRow+1)
		to, _ := excelize.CoordinatesToCellName(amountColumns[len(amountColumns)-1], lastRow)
		if err := wb.SetCellStyle(WorkbookSheet, from, to, money); err != nil {
			return err
		}
	}
	return wb.SetColWidth(WorkbookSheet, "A", "L", 16)
}

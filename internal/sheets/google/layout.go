package google

import (
	"fmt"
	"strings"

	"relatoriomei/internal/core"
	"relatoriomei/internal/export"
)

// Sheet layout: profile in A1:B3, column header on headerRow, one row per
// period below it keyed by "YYYY-MM" in column A.
const (
	headerRow   = 5
	firstRow    = headerRow + 1
	keyHeader   = "Chave"
	lastColumn  = "M"
	profileRows = "A1:B3"
)

func headerValues() []any {
	row := make([]any, 0, len(export.SummaryHeader)+1)
	row = append(row, keyHeader)
	for _, h := range export.SummaryHeader {
		row = append(row, h)
	}
	return row
}

func profileValues(p core.Profile) [][]any {
	return [][]any{
		{"CNPJ", p.CNPJ},
		{"Nome Empresarial", p.Nome},
		{"Local", p.Local},
	}
}

func periodValues(pr core.PeriodReport) []any {
	cells := export.SummaryRow(pr)
	row := make([]any, 0, len(cells)+1)
	row = append(row, pr.Period.String())
	for _, c := range cells {
		row = append(row, c)
	}
	return row
}

// locateRow finds the sheet row holding key in a key column read from
// firstRow downwards. When the key is absent it returns the first blank row,
// or the row after the last one.
func locateRow(keys [][]any, key string) (row int, found bool) {
	blank := -1
	for i, r := range keys {
		v := ""
		if len(r) > 0 {
			v = strings.TrimSpace(fmt.Sprint(r[0]))
		}
		if v == key {
			return firstRow + i, true
		}
		if v == "" && blank < 0 {
			blank = firstRow + i
		}
	}
	if blank >= 0 {
		return blank, false
	}
	return firstRow + len(keys), false
}

// keyRows maps every non-blank key in the key column to its row.
func keyRows(keys [][]any) map[string]int {
	rows := make(map[string]int, len(keys))
	for i, r := range keys {
		if len(r) == 0 {
			continue
		}
		if v := strings.TrimSpace(fmt.Sprint(r[0])); v != "" {
			rows[v] = firstRow + i
		}
	}
	return rows
}

func rowRange(sheet string, row int) string {
	return fmt.Sprintf("%s!A%d:%s%d", sheet, row, lastColumn, row)
}

func keyRange(sheet string) string {
	return fmt.Sprintf("%s!A%d:A", sheet, firstRow)
}

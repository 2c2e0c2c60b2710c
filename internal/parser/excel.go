package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseExcel renders every sheet as "Row N: Header: value, ..." lines.
// The first row of each sheet supplies the headers.
func parseExcel(filePath string) (string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	var sections []string
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			sections = append(sections, fmt.Sprintf("Sheet: %s\n(Unable to read sheet: %v)", sheetName, err))
			continue
		}
		if body := sheetText(rows); body != "" {
			sections = append(sections, fmt.Sprintf("Sheet: %s\n%s", sheetName, body))
		}
	}

	text := strings.Join(sections, "\n\n")
	if text == "" {
		return "", emptyError("Excel", filePath)
	}
	return text, nil
}

func sheetText(rows [][]string) string {
	if len(rows) < 2 {
		return ""
	}
	headers := rows[0]

	var lines []string
	for rowIdx, row := range rows[1:] {
		var parts []string
		for colIdx, cell := range row {
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			header := ""
			if colIdx < len(headers) {
				header = strings.TrimSpace(headers[colIdx])
			}
			if header == "" {
				header = fmt.Sprintf("Column %d", colIdx+1)
			}
			parts = append(parts, header+": "+value)
		}
		if len(parts) > 0 {
			// +2: one-based numbering and the header row
			lines = append(lines, fmt.Sprintf("Row %d: %s", rowIdx+2, strings.Join(parts, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

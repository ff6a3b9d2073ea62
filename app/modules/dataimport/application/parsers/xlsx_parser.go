package parsers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// XLSXParser parses XLSX roster and fight-history exports via
// excelize, reading the first sheet.
type XLSXParser struct{}

// NewXLSXParser creates a new XLSX parser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse reads the first sheet and feeds its rows through the same
// header/row assembly as the CSV path.
func (p *XLSXParser) Parse(data []byte) (*importtypes.ParsedTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "zip: not a valid zip file") {
			return nil, fmt.Errorf("failed to open XLSX file: %w (hint: if this is a CSV file, give it a .csv extension)", err)
		}
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	sheetName := sheets[0]
	allRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	headerIdx := -1
	for i, row := range allRows {
		if rowHasContent(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheetName)
	}

	headers := make([]string, 0, len(allRows[headerIdx]))
	for _, cell := range allRows[headerIdx] {
		headers = append(headers, strings.TrimSpace(cell))
	}

	var rawRows [][]string
	for _, row := range allRows[headerIdx+1:] {
		if !rowHasContent(row) {
			continue
		}
		trimmed := make([]string, len(row))
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
		}
		rawRows = append(rawRows, trimmed)
	}

	rows, truncated := assembleRows(headers, rawRows)
	return &importtypes.ParsedTable{
		Headers:       headers,
		Rows:          rows,
		TruncatedRows: truncated,
	}, nil
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

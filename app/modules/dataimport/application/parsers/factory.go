package parsers

import (
	"fmt"
	"path/filepath"
	"strings"

	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// Parser turns a raw spreadsheet export into a header row plus an
// ordered sequence of string-keyed rows.
type Parser interface {
	Parse(data []byte) (*importtypes.ParsedTable, error)
}

// Factory selects a parser by file extension.
type Factory struct{}

// NewFactory creates a new parser factory.
func NewFactory() *Factory {
	return &Factory{}
}

// GetParser returns the parser for the given filename.
func (f *Factory) GetParser(fileName string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt", ".tsv":
		return NewCSVParser(), nil
	case ".xlsx", ".xls":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file extension on %q", fileName)
	}
}

// assembleRows zips header names with row values. Short rows back-fill
// missing cells with the empty string; rows with more values than
// headers drop the extras and bump the truncated counter.
func assembleRows(headers []string, rawRows [][]string) ([]map[string]string, int) {
	rows := make([]map[string]string, 0, len(rawRows))
	truncated := 0
	for _, values := range rawRows {
		if len(values) > len(headers) {
			truncated++
		}
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(values) {
				row[header] = values[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, truncated
}

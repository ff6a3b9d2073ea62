package parsers

import (
	"bytes"
	"fmt"
	"strings"

	importtypes "github.com/cagepicks/cagepicks-backend/types/imports"
)

// CSVParser parses delimited-text roster and fight-history exports.
//
// Known limitations, kept intentionally: doubled quotes inside a
// quoted field are not unescaped beyond basic stripping, and embedded
// newlines inside quoted fields are not supported. The expected input
// files are simple exports that never produce either.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse splits the input into a header row and string-keyed data rows.
// Ragged rows are tolerated: short rows back-fill empty cells, long
// rows are truncated to the header width (counted in TruncatedRows).
func (p *CSVParser) Parse(data []byte) (*importtypes.ParsedTable, error) {
	text, delimiter, err := preprocess(data)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(text, "\n")
	headerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row found")
	}

	headers := splitHeader(lines[headerIdx], delimiter)
	if len(headers) == 0 {
		return nil, fmt.Errorf("header row has no columns")
	}

	var rawRows [][]string
	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rawRows = append(rawRows, SplitLine(line, delimiter))
	}

	rows, truncated := assembleRows(headers, rawRows)
	return &importtypes.ParsedTable{
		Headers:       headers,
		Rows:          rows,
		TruncatedRows: truncated,
	}, nil
}

// splitHeader splits the header line on the delimiter and trims
// surrounding quotes/whitespace per field.
func splitHeader(line string, delimiter rune) []string {
	parts := strings.Split(line, string(delimiter))
	headers := make([]string, 0, len(parts))
	for _, part := range parts {
		headers = append(headers, trimCell(part))
	}
	return headers
}

// SplitLine scans a data line character-by-character with a
// quote-toggle flag: a delimiter inside an open quote does not split,
// and a '"' toggles quoting. Doubled-quote escaping is not handled.
func SplitLine(line string, delimiter rune) []string {
	var values []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			values = append(values, trimCell(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	values = append(values, trimCell(current.String()))
	return values
}

func trimCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}

// preprocess strips a UTF-8 BOM, normalizes CRLF line endings, and
// auto-detects the delimiter by counting commas vs tabs in the first
// few lines.
func preprocess(data []byte) (string, rune, error) {
	if len(data) == 0 {
		return "", ',', fmt.Errorf("empty file")
	}

	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	cleaned := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))

	lines := strings.Split(cleaned, "\n")
	sample := len(lines)
	if sample > 5 {
		sample = 5
	}
	commas, tabs := 0, 0
	for i := 0; i < sample; i++ {
		commas += strings.Count(lines[i], ",")
		tabs += strings.Count(lines[i], "\t")
	}

	delimiter := ','
	if tabs > commas {
		delimiter = '\t'
	}
	return cleaned, delimiter, nil
}

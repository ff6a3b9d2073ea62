package parsers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFactory_GetParser(t *testing.T) {
	factory := NewFactory()
	tests := []struct {
		name     string
		filename string
		want     string
		wantErr  bool
	}{
		{name: "csv file", filename: "roster.csv", want: "csv"},
		{name: "tsv file", filename: "roster.tsv", want: "csv"},
		{name: "txt file", filename: "roster.txt", want: "csv"},
		{name: "xlsx file", filename: "roster.xlsx", want: "xlsx"},
		{name: "xls file", filename: "roster.xls", want: "xlsx"},
		{name: "uppercase extension", filename: "ROSTER.CSV", want: "csv"},
		{name: "unsupported file", filename: "roster.pdf", wantErr: true},
		{name: "no extension", filename: "roster", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := factory.GetParser(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			switch tt.want {
			case "csv":
				_, ok := parser.(*CSVParser)
				require.True(t, ok)
			case "xlsx":
				_, ok := parser.(*XLSXParser)
				require.True(t, ok)
			default:
				t.Fatalf("unexpected parser type %q", tt.want)
			}
		})
	}
}

func TestCSVParser_Parse(t *testing.T) {
	parser := NewCSVParser()

	t.Run("basic comma file", func(t *testing.T) {
		result, err := parser.Parse([]byte("first_name,last_name,wins\nJon,Jones,28\nAmanda,Nunes,23"))
		require.NoError(t, err)
		require.Equal(t, []string{"first_name", "last_name", "wins"}, result.Headers)
		require.Len(t, result.Rows, 2)
		require.Equal(t, "Jon", result.Rows[0]["first_name"])
		require.Equal(t, "23", result.Rows[1]["wins"])
	})

	t.Run("quoted delimiter does not split", func(t *testing.T) {
		result, err := parser.Parse([]byte("name,event\n\"Doe, John\",UFC 300"))
		require.NoError(t, err)
		require.Len(t, result.Rows, 1)
		require.Equal(t, "Doe, John", result.Rows[0]["name"])
		require.Equal(t, "UFC 300", result.Rows[0]["event"])
	})

	t.Run("tab delimited detection", func(t *testing.T) {
		result, err := parser.Parse([]byte("first_name\tlast_name\nJon\tJones"))
		require.NoError(t, err)
		require.Equal(t, []string{"first_name", "last_name"}, result.Headers)
		require.Equal(t, "Jones", result.Rows[0]["last_name"])
	})

	t.Run("BOM and CRLF stripped", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("name,wins\r\nJon,28\r\n")...)
		result, err := parser.Parse(data)
		require.NoError(t, err)
		require.Equal(t, []string{"name", "wins"}, result.Headers)
		require.Equal(t, "28", result.Rows[0]["wins"])
	})

	t.Run("short rows backfill empty cells", func(t *testing.T) {
		result, err := parser.Parse([]byte("a,b,c\n1,2"))
		require.NoError(t, err)
		require.Equal(t, "2", result.Rows[0]["b"])
		require.Equal(t, "", result.Rows[0]["c"])
		require.Zero(t, result.TruncatedRows)
	})

	t.Run("long rows truncate and are counted", func(t *testing.T) {
		result, err := parser.Parse([]byte("a,b\n1,2,3\n4,5"))
		require.NoError(t, err)
		require.Len(t, result.Rows, 2)
		require.Equal(t, map[string]string{"a": "1", "b": "2"}, result.Rows[0])
		require.Equal(t, 1, result.TruncatedRows)
	})

	t.Run("leading blank lines skipped before header", func(t *testing.T) {
		result, err := parser.Parse([]byte("\n\nname,wins\nJon,28"))
		require.NoError(t, err)
		require.Equal(t, []string{"name", "wins"}, result.Headers)
		require.Len(t, result.Rows, 1)
	})

	t.Run("blank data lines skipped", func(t *testing.T) {
		result, err := parser.Parse([]byte("name,wins\nJon,28\n\n   \nAmanda,23"))
		require.NoError(t, err)
		require.Len(t, result.Rows, 2)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := parser.Parse(nil)
		require.Error(t, err)
	})

	t.Run("whitespace only file", func(t *testing.T) {
		_, err := parser.Parse([]byte("   \n \n"))
		require.Error(t, err)
	})
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain", line: "a,b,c", want: []string{"a", "b", "c"}},
		{name: "quoted comma", line: `"Doe, John",28`, want: []string{"Doe, John", "28"}},
		{name: "trailing empty cell", line: "a,b,", want: []string{"a", "b", ""}},
		{name: "whitespace trimmed", line: " a , b ", want: []string{"a", "b"}},
		{name: "unterminated quote swallows rest", line: `"a,b`, want: []string{"a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SplitLine(tt.line, ','))
		})
	}
}

func TestXLSXParser_Parse(t *testing.T) {
	buildXLSX := func(t *testing.T, rows [][]any) []byte {
		t.Helper()
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf))
		return buf.Bytes()
	}

	parser := NewXLSXParser()

	t.Run("basic sheet", func(t *testing.T) {
		data := buildXLSX(t, [][]any{
			{"first_name", "last_name", "wins"},
			{"Jon", "Jones", 28},
		})
		result, err := parser.Parse(data)
		require.NoError(t, err)
		require.Equal(t, []string{"first_name", "last_name", "wins"}, result.Headers)
		require.Len(t, result.Rows, 1)
		require.Equal(t, "28", result.Rows[0]["wins"])
	})

	t.Run("blank leading rows skipped", func(t *testing.T) {
		data := buildXLSX(t, [][]any{
			{"", ""},
			{"name", "wins"},
			{"Jon", 28},
		})
		result, err := parser.Parse(data)
		require.NoError(t, err)
		require.Equal(t, []string{"name", "wins"}, result.Headers)
		require.Len(t, result.Rows, 1)
	})

	t.Run("not a zip", func(t *testing.T) {
		_, err := parser.Parse([]byte("name,wins\nJon,28"))
		require.Error(t, err)
		require.Contains(t, err.Error(), ".csv")
	})
}

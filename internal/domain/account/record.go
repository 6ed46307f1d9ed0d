package account

import (
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// Record is one parsed row keyed by header name. A header with no value on a
// short row is absent from the map.
type Record map[string]string

func (r Record) Email() string {
	return r[FieldEmail]
}

func (r Record) Password() string {
	return r[FieldPassword]
}

// FormatFromPath maps a file extension onto one of the accepted import formats.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case string(FormatCSV):
		return FormatCSV, true
	case string(FormatXLSX):
		return FormatXLSX, true
	case string(FormatXLS):
		return FormatXLS, true
	default:
		return "", false
	}
}

// ParseRecords turns comma-separated text into records using the first line as
// the header row. Cells are split on every comma; quoted commas are not
// supported and shift the remaining columns.
func ParseRecords(text string, format Format) []Record {
	lines := splitLines(text, format)
	headers := strings.Split(lines[0], ",")

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cells := strings.Split(line, ",")
		record := make(Record, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				record[header] = cells[i]
				continue
			}
			// a later duplicate header without a value still clears the earlier one
			delete(record, header)
		}
		records = append(records, record)
	}

	return records
}

func splitLines(text string, format Format) []string {
	if format == FormatCSV && strings.Contains(text, "\r\n") {
		return strings.Split(text, "\r\n")
	}
	return strings.Split(text, "\n")
}

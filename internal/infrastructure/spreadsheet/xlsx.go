package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheets = errors.New("workbook has no sheets")

// Decoder renders the first worksheet of a workbook as comma separated text,
// one row per line.
type Decoder struct{}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) FirstSheetCSV(data []byte) (string, error) {
	book, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}

	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = quoteCell(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n"), nil
}

// quoteCell quotes only cells holding a comma, a quote or a line break.
// Surrounding whitespace is kept as typed.
func quoteCell(cell string) string {
	if !strings.ContainsAny(cell, ",\"\r\n") {
		return cell
	}
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}

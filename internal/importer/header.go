package importer

import "strings"

type column int

const (
	colDate column = iota
	colAmount
	colType
	colCategory
	colDescription
	numColumns
)

var columnNames = [numColumns]string{"date", "amount", "type", "category", "description"}

// headerAliases maps lowercased header cells to the logical column they fill.
var headerAliases = map[string]column{
	"date":        colDate,
	"วันที่":      colDate,
	"amount":      colAmount,
	"จำนวนเงิน":   colAmount,
	"type":        colType,
	"kind":        colType,
	"ประเภท":      colType,
	"category":    colCategory,
	"หมวดหมู่":    colCategory,
	"description": colDescription,
	"note":        colDescription,
	"memo":        colDescription,
	"รายละเอียด":  colDescription,
}

// header maps each logical column to its position, -1 when absent.
type header [numColumns]int

func (h header) has(c column) bool {
	return h[c] >= 0
}

// minFields is the number of fields a row needs to reach every required column.
func (h header) minFields() int {
	return max(h[colDate], h[colAmount]) + 1
}

// resolveHeader matches header cells case-insensitively. The first cell mapping
// to a column wins and unknown cells are ignored.
func resolveHeader(fields []string) (header, error) {
	var h header
	for i := range h {
		h[i] = -1
	}

	for pos, cell := range fields {
		c, ok := headerAliases[strings.ToLower(strings.TrimSpace(cell))]
		if !ok || h.has(c) {
			continue
		}

		h[c] = pos
	}

	for _, c := range []column{colDate, colAmount} {
		if !h.has(c) {
			return h, &MissingColumnError{Column: columnNames[c]}
		}
	}

	return h, nil
}

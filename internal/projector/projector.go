// Package projector shapes raw result rows for display: header derivation,
// sorting, substring filtering and cell rendering. It performs no I/O.
package projector

import (
	"cmp"
	"sort"
	"strings"

	"discussx/internal/query"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection accepts "asc"/"desc" in any case; anything else is ascending.
func ParseDirection(name string) Direction {
	if strings.EqualFold(strings.TrimSpace(name), "desc") {
		return Descending
	}
	return Ascending
}

// NullText is how a null cell is displayed.
const NullText = "NULL"

// DeriveHeaders returns the column names of the first row.
func DeriveHeaders(rows []query.Row) []string {
	if len(rows) == 0 {
		return []string{}
	}
	return rows[0].Columns()
}

// Render turns a cell into display text.
func Render(value query.Value) string {
	if value.IsNull() {
		return NullText
	}
	return value.String()
}

// Sort returns a new slice ordered by key. Nulls sort last in both
// directions and equal keys keep their input order.
func Sort(rows []query.Row, key string, direction Direction) []query.Row {
	sorted := make([]query.Row, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Get(key), sorted[j].Get(key)

		switch {
		case a.IsNull() && b.IsNull():
			return false
		case a.IsNull():
			return false
		case b.IsNull():
			return true
		}

		if direction == Descending {
			return compare(b, a) < 0
		}
		return compare(a, b) < 0
	})

	return sorted
}

// kindRank orders mixed kinds: bool < number < string < object.
func kindRank(kind query.Kind) int {
	switch kind {
	case query.KindBool:
		return 0
	case query.KindNumber:
		return 1
	case query.KindString:
		return 2
	default:
		return 3
	}
}

func compare(a, b query.Value) int {
	if a.Kind() != b.Kind() {
		return kindRank(a.Kind()) - kindRank(b.Kind())
	}

	switch a.Kind() {
	case query.KindBool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	case query.KindNumber:
		if a.IsInteger() && b.IsInteger() {
			return cmp.Compare(a.Int64(), b.Int64())
		}
		// NaN orders before every other number
		return cmp.Compare(a.Number(), b.Number())
	default:
		return strings.Compare(a.String(), b.String())
	}
}

// Filter keeps rows where any of the listed columns renders to text that
// contains substring, ignoring case. Null cells never match. An empty
// substring keeps every row.
func Filter(rows []query.Row, headers []string, substring string) []query.Row {
	if substring == "" {
		return append([]query.Row(nil), rows...)
	}

	needle := strings.ToLower(substring)
	filtered := make([]query.Row, 0, len(rows))
	for _, row := range rows {
		for _, header := range headers {
			value := row.Get(header)
			if value.IsNull() {
				continue
			}
			if strings.Contains(strings.ToLower(Render(value)), needle) {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}

// View is what a dashboard user asked to see.
type View struct {
	SortKey   string
	Direction Direction
	Filter    string
}

// Table is a rendered, display-ready result.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Shown   int        `json:"shown"`
	Total   int        `json:"total"`
}

// Project filters, then sorts, then renders rows. Headers come from the
// supplied columns when the result carries them, so empty results keep
// their header line.
func Project(columns []string, rows []query.Row, view View) Table {
	headers := columns
	if len(headers) == 0 {
		headers = DeriveHeaders(rows)
	}

	visible := Filter(rows, headers, view.Filter)
	if view.SortKey != "" {
		visible = Sort(visible, view.SortKey, view.Direction)
	}

	table := Table{
		Headers: append([]string{}, headers...),
		Rows:    make([][]string, 0, len(visible)),
		Shown:   len(visible),
		Total:   len(rows),
	}
	for _, row := range visible {
		table.Rows = append(table.Rows, renderRow(row, headers))
	}
	return table
}

func renderRow(row query.Row, headers []string) []string {
	cells := make([]string, len(headers))
	for i, header := range headers {
		cells[i] = Render(row.Get(header))
	}
	return cells
}

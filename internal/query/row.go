package query

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Cell is one named column of a row.
type Cell struct {
	Column string
	Value  Value
}

// Row is an ordered sequence of cells, in the column order the statement
// produced. Duplicate column names are kept; Get returns the first.
type Row []Cell

// NewRow builds a row from parallel column and value slices.
func NewRow(columns []string, values []Value) Row {
	row := make(Row, len(columns))
	for i, column := range columns {
		var value Value
		if i < len(values) {
			value = values[i]
		}
		row[i] = Cell{Column: column, Value: value}
	}
	return row
}

// Get returns the value of the named column, or null when the row has no such column.
func (r Row) Get(column string) Value {
	for _, cell := range r {
		if cell.Column == column {
			return cell.Value
		}
	}
	return Null()
}

// Has reports whether the row carries the named column.
func (r Row) Has(column string) bool {
	for _, cell := range r {
		if cell.Column == column {
			return true
		}
	}
	return false
}

func (r Row) Columns() []string {
	columns := make([]string, len(r))
	for i, cell := range r {
		columns[i] = cell.Column
	}
	return columns
}

// MarshalJSON encodes the row as a JSON object keeping column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cell := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cell.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := cell.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

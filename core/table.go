//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of ReviewMart.
//
// ReviewMart is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ReviewMart is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ReviewMart. If not, see https://www.gnu.org/licenses/.

package core

import (
	"fmt"
	"strings"
)

// Record represents a single row keyed by column name.
type Record map[string]Value

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered-column, row-oriented dataset. Column order is part of
// the table's identity: the raw schema check and the type coercion check
// both compare columns positionally.
//
// Transform stages never mutate a caller's table; every operation returns a
// fresh Table that owns its rows.
type Table struct {
	name    string
	columns []string
	rows    []Record
}

// NewTable creates an empty table with the given column order.
func NewTable(name string, columns []string) *Table {
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
	}
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the ordered column names.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// AppendRow adds a row. Missing columns are stored as null; extra keys are
// ignored so a record from a wider source can feed a narrower table.
func (t *Table) AppendRow(r Record) {
	row := make(Record, len(t.columns))
	for _, col := range t.columns {
		if v, ok := r[col]; ok {
			row[col] = v
		} else {
			row[col] = Null()
		}
	}
	t.rows = append(t.rows, row)
}

// Value returns the cell at row i, named column. Out-of-range or unknown
// columns return null.
func (t *Table) Value(i int, column string) Value {
	if i < 0 || i >= len(t.rows) {
		return Null()
	}
	return t.rows[i][column]
}

// Row returns a copy of row i.
func (t *Table) Row(i int) Record {
	return t.rows[i].Clone()
}

// Column returns all values of one column in row order.
func (t *Table) Column(name string) []Value {
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[name]
	}
	return out
}

// Clone returns an independent deep-enough copy (rows are copied; values
// are immutable).
func (t *Table) Clone() *Table {
	out := NewTable(t.name, t.columns)
	out.rows = make([]Record, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = row.Clone()
	}
	return out
}

// Project returns a new table holding only the requested columns, in the
// requested order. Unknown columns are an error.
func (t *Table) Project(name string, columns ...string) (*Table, error) {
	for _, col := range columns {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("project %s: no column %q in table %s", name, col, t.name)
		}
	}
	out := NewTable(name, columns)
	for _, row := range t.rows {
		out.AppendRow(row)
	}
	return out, nil
}

// Deduplicate returns a new table with exact-duplicate rows removed,
// keeping the first occurrence. Row order is otherwise preserved.
func (t *Table) Deduplicate() *Table {
	out := NewTable(t.name, t.columns)
	seen := make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		parts := make([]string, len(t.columns))
		for i, col := range t.columns {
			parts[i] = row[col].Key()
		}
		key := strings.Join(parts, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.rows = append(out.rows, row.Clone())
	}
	return out
}

// WithColumn returns a new table with an extra column appended. vals must
// have one entry per row, or exactly one entry to broadcast a constant.
func (t *Table) WithColumn(name string, vals []Value) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("table %s already has column %q", t.name, name)
	}
	if len(vals) != len(t.rows) && len(vals) != 1 {
		return nil, fmt.Errorf("table %s: column %q has %d values for %d rows", t.name, name, len(vals), len(t.rows))
	}
	out := NewTable(t.name, append(t.columns, name))
	out.rows = make([]Record, len(t.rows))
	for i, row := range t.rows {
		nr := row.Clone()
		if len(vals) == 1 {
			nr[name] = vals[0]
		} else {
			nr[name] = vals[i]
		}
		out.rows[i] = nr
	}
	return out, nil
}

// Renamed returns a new table with columns renamed per the mapping; columns
// absent from the mapping keep their name. Column order is preserved.
func (t *Table) Renamed(mapping map[string]string) *Table {
	columns := make([]string, len(t.columns))
	for i, col := range t.columns {
		if renamed, ok := mapping[col]; ok {
			columns[i] = renamed
		} else {
			columns[i] = col
		}
	}
	out := NewTable(t.name, columns)
	out.rows = make([]Record, len(t.rows))
	for i, row := range t.rows {
		nr := make(Record, len(columns))
		for j, col := range t.columns {
			nr[columns[j]] = row[col]
		}
		out.rows[i] = nr
	}
	return out
}

// filter returns a new table keeping rows where keep returns true. Used by
// the null-handling engine; row order is preserved.
func (t *Table) filter(keep func(Record) bool) *Table {
	out := NewTable(t.name, t.columns)
	for _, row := range t.rows {
		if keep(row) {
			out.rows = append(out.rows, row.Clone())
		}
	}
	return out
}

// Filter exposes row filtering for table consumers.
func (t *Table) Filter(keep func(Record) bool) *Table {
	return t.filter(keep)
}

// MapRows returns a new table whose rows are produced by fn. fn receives a
// copy and returns the replacement row.
func (t *Table) MapRows(fn func(Record) (Record, error)) (*Table, error) {
	out := NewTable(t.name, t.columns)
	out.rows = make([]Record, len(t.rows))
	for i, row := range t.rows {
		replaced, err := fn(row.Clone())
		if err != nil {
			return nil, err
		}
		out.rows[i] = replaced
	}
	return out, nil
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	t := NewTable("reviews", []string{"reviewerID", "asin", "overall"})
	t.AppendRow(Record{"reviewerID": String("U1"), "asin": String("A1"), "overall": Float(5)})
	t.AppendRow(Record{"reviewerID": String("U2"), "asin": String("A1"), "overall": Float(2)})
	t.AppendRow(Record{"reviewerID": String("U1"), "asin": String("A1"), "overall": Float(5)})
	return t
}

func TestTable_AppendRow(t *testing.T) {
	table := NewTable("t", []string{"a", "b"})

	// Missing columns are stored as null; extra keys are dropped.
	table.AppendRow(Record{"a": Int(1), "c": Int(9)})

	require.Equal(t, 1, table.Len())
	assert.Equal(t, int64(1), table.Value(0, "a").IntVal())
	assert.True(t, table.Value(0, "b").IsNull())
	assert.True(t, table.Value(0, "c").IsNull())
}

func TestTable_Project(t *testing.T) {
	table := sampleTable()

	got, err := table.Project("reviewers", "reviewerID")
	require.NoError(t, err)
	assert.Equal(t, "reviewers", got.Name())
	assert.Equal(t, []string{"reviewerID"}, got.Columns())
	assert.Equal(t, 3, got.Len())

	_, err = table.Project("bad", "no_such_column")
	require.Error(t, err)
}

func TestTable_Deduplicate(t *testing.T) {
	table := sampleTable()

	got := table.Deduplicate()
	require.Equal(t, 2, got.Len())
	// First occurrence wins, order preserved.
	assert.Equal(t, "U1", got.Value(0, "reviewerID").Str())
	assert.Equal(t, "U2", got.Value(1, "reviewerID").Str())

	// Source is untouched.
	assert.Equal(t, 3, table.Len())
}

func TestTable_WithColumn(t *testing.T) {
	table := sampleTable()

	got, err := table.WithColumn("currency", []Value{String("USD")})
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewerID", "asin", "overall", "currency"}, got.Columns())
	for i := 0; i < got.Len(); i++ {
		assert.Equal(t, "USD", got.Value(i, "currency").Str())
	}

	// Source table is never widened in place.
	assert.Equal(t, []string{"reviewerID", "asin", "overall"}, table.Columns())

	_, err = table.WithColumn("overall", []Value{Int(1)})
	require.Error(t, err, "duplicate column")

	_, err = table.WithColumn("x", []Value{Int(1), Int(2)})
	require.Error(t, err, "wrong value count")
}

func TestTable_Renamed(t *testing.T) {
	table := sampleTable()

	got := table.Renamed(map[string]string{"reviewerID": "reviewer_id", "asin": "item_id"})
	assert.Equal(t, []string{"reviewer_id", "item_id", "overall"}, got.Columns())
	assert.Equal(t, "U1", got.Value(0, "reviewer_id").Str())
	assert.Equal(t, "A1", got.Value(0, "item_id").Str())

	assert.Equal(t, []string{"reviewerID", "asin", "overall"}, table.Columns())
}

func TestTable_Filter(t *testing.T) {
	table := sampleTable()

	got := table.Filter(func(r Record) bool {
		return r["reviewerID"].Str() == "U1"
	})
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 3, table.Len())
}

func TestTable_MapRows(t *testing.T) {
	table := sampleTable()

	got, err := table.MapRows(func(r Record) (Record, error) {
		r["asin"] = String("CHANGED")
		return r, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "CHANGED", got.Value(0, "asin").Str())
	// The callback gets a copy; the source keeps its values.
	assert.Equal(t, "A1", table.Value(0, "asin").Str())
}

func TestTable_ValueOutOfRange(t *testing.T) {
	table := sampleTable()
	assert.True(t, table.Value(-1, "asin").IsNull())
	assert.True(t, table.Value(99, "asin").IsNull())
}

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

func TestValue_ZeroValueIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.Equal(t, "", v.Format())
}

func TestValue_Format(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"string", String("hello"), "hello"},
		{"int", Int(42), "42"},
		{"negative int", Int(-1), "-1"},
		{"float", Float(2.5), "2.5"},
		{"bool", Bool(true), "true"},
		{"null", Null(), ""},
		{"list", List(Int(3), Int(5)), "[3, 5]"},
		{"map", Map(Pair{Key: "Books", Value: Int(1)}), "{Books: 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Format())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Int(5).Equal(Int(5)))
	assert.False(t, Int(5).Equal(Int(6)))
	assert.False(t, Int(5).Equal(Float(5)))
	assert.True(t, Null().Equal(Null()))
	assert.True(t, List(String("a")).Equal(List(String("a"))))
	assert.False(t, List(String("a")).Equal(List(String("a"), String("b"))))
	assert.True(t,
		Map(Pair{Key: "k", Value: Int(1)}).Equal(Map(Pair{Key: "k", Value: Int(1)})))
	assert.False(t,
		Map(Pair{Key: "k", Value: Int(1)}).Equal(Map(Pair{Key: "x", Value: Int(1)})))
}

func TestValue_Get(t *testing.T) {
	m := Map(
		Pair{Key: "also_bought", Value: List(String("B1"))},
		Pair{Key: "also_viewed", Value: List()},
	)

	v, ok := m.Get("also_bought")
	require.True(t, ok)
	assert.Equal(t, KindList, v.Kind())

	_, ok = m.Get("buy_after_viewing")
	assert.False(t, ok)
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected Value
	}{
		{"nil", nil, Null()},
		{"string", "abc", String("abc")},
		{"bool", true, Bool(true)},
		{"int", 5, Int(5)},
		{"int64", int64(7), Int(7)},
		{"integral float", 3.0, Int(3)},
		{"fractional float", 3.5, Float(3.5)},
		{"list", []interface{}{1.0, "x"}, List(Int(1), String("x"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromAny(tt.input)
			assert.True(t, tt.expected.Equal(got), "got %s kind %s", got.Format(), got.Kind())
		})
	}
}

func TestFromAny_MapKeysSorted(t *testing.T) {
	got := FromAny(map[string]interface{}{"zebra": 1.0, "apple": 2.0})
	require.Equal(t, KindMap, got.Kind())
	pairs := got.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "apple", pairs[0].Key)
	assert.Equal(t, "zebra", pairs[1].Key)
}

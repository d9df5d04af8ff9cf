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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Value
	}{
		{"int", "42", Int(42)},
		{"negative int", "-7", Int(-7)},
		{"float", "3.14", Float(3.14)},
		{"none", "None", Null()},
		{"nan", "nan", Null()},
		{"true", "True", Bool(true)},
		{"false", "False", Bool(false)},
		{"single quoted string", "'Books'", String("Books")},
		{"double quoted string", `"Books"`, String("Books")},
		{"escaped quote", `'it\'s'`, String("it's")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLiteral(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got.Format())
		})
	}
}

func TestParseLiteral_HelpfulnessPair(t *testing.T) {
	got, err := ParseLiteral("[4, 10]")
	require.NoError(t, err)
	require.Equal(t, KindList, got.Kind())
	items := got.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(4), items[0].IntVal())
	assert.Equal(t, int64(10), items[1].IntVal())
}

func TestParseLiteral_SalesRankDict(t *testing.T) {
	got, err := ParseLiteral("{'Books': 12345}")
	require.NoError(t, err)
	require.Equal(t, KindMap, got.Kind())
	pairs := got.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, "Books", pairs[0].Key)
	assert.Equal(t, int64(12345), pairs[0].Value.IntVal())
}

func TestParseLiteral_DictPreservesLiteralOrder(t *testing.T) {
	got, err := ParseLiteral("{'Zebra': 1, 'Apple': 2}")
	require.NoError(t, err)
	pairs := got.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, "Zebra", pairs[0].Key)
	assert.Equal(t, "Apple", pairs[1].Key)
}

func TestParseLiteral_SetLiteralSentinel(t *testing.T) {
	// The feed encodes "no sales rank" as a one-element set.
	got, err := ParseLiteral("{'Unranked'}")
	require.NoError(t, err)
	require.Equal(t, KindMap, got.Kind())
	pairs := got.Pairs()
	require.Len(t, pairs, 1)
	assert.Equal(t, "Unranked", pairs[0].Key)
	assert.True(t, pairs[0].Value.IsNull())
}

func TestParseLiteral_NestedCategories(t *testing.T) {
	got, err := ParseLiteral("[['Books', 'Fiction'], ['Coffee']]")
	require.NoError(t, err)
	require.Equal(t, KindList, got.Kind())
	outer := got.Items()
	require.Len(t, outer, 2)
	require.Equal(t, KindList, outer[0].Kind())
	assert.Equal(t, "Books", outer[0].Items()[0].Str())
	assert.Equal(t, "Fiction", outer[0].Items()[1].Str())
	assert.Equal(t, "Coffee", outer[1].Items()[0].Str())
}

func TestParseLiteral_RelatedItemsDict(t *testing.T) {
	got, err := ParseLiteral("{'also_bought': ['B1', 'B2'], 'also_viewed': []}")
	require.NoError(t, err)

	bought, ok := got.Get("also_bought")
	require.True(t, ok)
	require.Len(t, bought.Items(), 2)
	assert.Equal(t, "B1", bought.Items()[0].Str())

	viewed, ok := got.Get("also_viewed")
	require.True(t, ok)
	assert.Empty(t, viewed.Items())
}

func TestParseLiteral_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated list", "[1, 2"},
		{"unterminated dict", "{'a': 1"},
		{"unterminated string", "'abc"},
		{"trailing garbage", "[1, 2] tail"},
		{"bare garbage", "not-a-literal"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLiteral(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedField))
		})
	}
}

func TestLooksLikeLiteral(t *testing.T) {
	assert.True(t, LooksLikeLiteral("[3, 5]"))
	assert.True(t, LooksLikeLiteral("  {'Books': 1}"))
	assert.False(t, LooksLikeLiteral("plain text"))
	assert.False(t, LooksLikeLiteral("9 17, 1999"))
}

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

package readers

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/reviewmart/core"
)

// mockReadCloser wraps a strings.Reader and records whether Close ran.
type mockReadCloser struct {
	io.Reader
	closed bool
}

func newMockReadCloser(data string) *mockReadCloser {
	return &mockReadCloser{Reader: strings.NewReader(data)}
}

func (m *mockReadCloser) Close() error {
	m.closed = true
	return nil
}

func TestCSVReader_ReadsRecords(t *testing.T) {
	data := "reviewerID,asin,overall,unixReviewTime\n" +
		"U1,A1,5.0,937519200\n"
	rc := newMockReadCloser(data)

	reader, err := NewCSVReader(rc)
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewerID", "asin", "overall", "unixReviewTime"}, reader.Headers())

	rec, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.KindString, rec["reviewerID"].Kind())
	assert.Equal(t, "U1", rec["reviewerID"].Str())
	// Scalar cells stay strings; the coercion stage types them later.
	assert.Equal(t, core.KindString, rec["overall"].Kind())
	assert.Equal(t, "5.0", rec["overall"].Str())
	assert.Equal(t, "937519200", rec["unixReviewTime"].Str())

	_, err = reader.Read(context.Background())
	assert.Equal(t, io.EOF, err)

	require.NoError(t, reader.Close())
	assert.True(t, rc.closed)
}

func TestCSVReader_NumericLookingIDsStayStrings(t *testing.T) {
	// ISBN-style ids must keep their leading zeros and their string kind;
	// an inferred int would corrupt the key and break composite-id building.
	data := "reviewerID,asin\n12345,0439023483\n"
	reader, err := NewCSVReader(newMockReadCloser(data))
	require.NoError(t, err)

	rec, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.KindString, rec["reviewerID"].Kind())
	assert.Equal(t, "12345", rec["reviewerID"].Str())
	assert.Equal(t, core.KindString, rec["asin"].Kind())
	assert.Equal(t, "0439023483", rec["asin"].Str())
}

func TestCSVReader_NullSentinels(t *testing.T) {
	data := "a,b,c\n,nan,None\n"
	reader, err := NewCSVReader(newMockReadCloser(data))
	require.NoError(t, err)

	rec, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, rec["a"].IsNull())
	assert.True(t, rec["b"].IsNull())
	assert.True(t, rec["c"].IsNull())

	stats := reader.Stats()
	assert.Equal(t, int64(1), stats.RecordsRead)
	assert.Equal(t, int64(1), stats.NullValueCounts["a"])
}

func TestCSVReader_DecodesNestedLiterals(t *testing.T) {
	data := `helpful,salesrank` + "\n" +
		`"[4, 10]","{'Books': 4534}"` + "\n"
	reader, err := NewCSVReader(newMockReadCloser(data))
	require.NoError(t, err)

	rec, err := reader.Read(context.Background())
	require.NoError(t, err)

	require.Equal(t, core.KindList, rec["helpful"].Kind())
	items := rec["helpful"].Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(4), items[0].IntVal())
	assert.Equal(t, int64(10), items[1].IntVal())

	require.Equal(t, core.KindMap, rec["salesrank"].Kind())
	rank, ok := rec["salesrank"].Get("Books")
	require.True(t, ok)
	assert.Equal(t, int64(4534), rank.IntVal())
}

func TestCSVReader_LiteralDecodingDisabled(t *testing.T) {
	data := "helpful\n\"[4, 10]\"\n"
	reader, err := NewCSVReader(newMockReadCloser(data), WithCSVDecodeLiterals(false))
	require.NoError(t, err)

	rec, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.KindString, rec["helpful"].Kind())
	assert.Equal(t, "[4, 10]", rec["helpful"].Str())
}

func TestCSVReader_MalformedLiteralStaysString(t *testing.T) {
	data := "helpful\n\"[4, 10\"\n"
	reader, err := NewCSVReader(newMockReadCloser(data))
	require.NoError(t, err)

	rec, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.KindString, rec["helpful"].Kind())
}

func TestCSVReader_ContextCancellation(t *testing.T) {
	reader, err := NewCSVReader(newMockReadCloser("a\n1\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = reader.Read(ctx)
	require.Error(t, err)
	var rerr *CSVReaderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "read", rerr.Op)
}

func TestCSVReader_CustomDelimiter(t *testing.T) {
	data := "a;b\n1;2\n"
	reader, err := NewCSVReader(newMockReadCloser(data), WithCSVComma(';'))
	require.NoError(t, err)

	rec, err := reader.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", rec["a"].Str())
	assert.Equal(t, "2", rec["b"].Str())
}

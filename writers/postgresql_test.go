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

package writers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
)

func typeSchemaFromYAML(t *testing.T, doc string) schema.TypeSchema {
	t.Helper()
	var ts schema.TypeSchema
	require.NoError(t, yaml.Unmarshal([]byte(doc), &ts))
	return ts
}

func TestNewPostgresWriter_RequiresDSNAndRegistry(t *testing.T) {
	registry, err := schema.Load()
	require.NoError(t, err)

	_, err = NewPostgresWriter(WithPostgresRegistry(registry))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DSN is required")

	_, err = NewPostgresWriter(WithPostgresDSN("postgres://localhost/reviews"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema registry is required")
}

func TestCreateTableSQL(t *testing.T) {
	types := typeSchemaFromYAML(t,
		"date_as_int: integer\ndate_string: string\noverall_score: float\nverified: boolean\n")

	got := createTableSQL("date_dimension", types)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "date_dimension" `+
		`("date_as_int" BIGINT, "date_string" TEXT, "overall_score" DOUBLE PRECISION, "verified" BOOLEAN)`, got)
}

func TestQuoteIdent_EscapesQuotes(t *testing.T) {
	assert.Equal(t, `"plain"`, quoteIdent("plain"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}

func TestSQLValue(t *testing.T) {
	assert.Nil(t, sqlValue(core.Null()))
	assert.Equal(t, "x", sqlValue(core.String("x")))
	assert.Equal(t, int64(7), sqlValue(core.Int(7)))
	assert.Equal(t, 2.5, sqlValue(core.Float(2.5)))
	assert.Equal(t, true, sqlValue(core.Bool(true)))
}

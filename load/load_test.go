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

package load

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
)

func TestNewWarehouse_UnknownTarget(t *testing.T) {
	registry, err := schema.Load()
	require.NoError(t, err)

	_, err = NewWarehouse(context.Background(), Config{Target: "redshift"}, registry)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadWarehouseTarget)
}

func TestWarehouse_PersistLocalCSV(t *testing.T) {
	registry, err := schema.Load()
	require.NoError(t, err)

	dir := t.TempDir()
	warehouse, err := NewWarehouse(context.Background(), Config{Target: "local", Dir: dir}, registry)
	require.NoError(t, err)
	defer warehouse.Close()

	reviewers := core.NewTable("reviewers", []string{"reviewer_id"})
	reviewers.AppendRow(core.Record{"reviewer_id": core.String("U1")})

	dates := core.NewTable("date_dimension", []string{"date_as_int", "date_string"})
	dates.AppendRow(core.Record{
		"date_as_int": core.Int(19990917),
		"date_string": core.String("1999-09-17"),
	})

	tables := map[string]*core.Table{
		"reviewers":      reviewers,
		"date_dimension": dates,
	}
	require.NoError(t, warehouse.Persist(context.Background(), tables))

	got, err := os.ReadFile(filepath.Join(dir, "reviewers.csv"))
	require.NoError(t, err)
	assert.Equal(t, "reviewer_id\nU1\n", string(got))

	got, err = os.ReadFile(filepath.Join(dir, "date_dimension.csv"))
	require.NoError(t, err)
	assert.Equal(t, "date_as_int,date_string\n19990917,1999-09-17\n", string(got))
}

func TestWarehouse_PersistCreatesDirectory(t *testing.T) {
	registry, err := schema.Load()
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "nested", "out")
	warehouse, err := NewWarehouse(context.Background(), Config{Target: "local", Dir: dir}, registry)
	require.NoError(t, err)
	defer warehouse.Close()

	table := core.NewTable("reviewers", []string{"reviewer_id"})
	require.NoError(t, warehouse.Persist(context.Background(), map[string]*core.Table{"reviewers": table}))

	_, err = os.Stat(filepath.Join(dir, "reviewers.csv"))
	assert.NoError(t, err)
}

func TestWarehouse_PersistCancelledContext(t *testing.T) {
	registry, err := schema.Load()
	require.NoError(t, err)

	warehouse, err := NewWarehouse(context.Background(), Config{Target: "local", Dir: t.TempDir()}, registry)
	require.NoError(t, err)
	defer warehouse.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := core.NewTable("reviewers", []string{"reviewer_id"})
	err = warehouse.Persist(ctx, map[string]*core.Table{"reviewers": table})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

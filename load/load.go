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

// Package load resolves a warehouse target to a table sink and persists the
// reshaper's output tables unchanged.
package load

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
	"github.com/aaronlmathis/reviewmart/writers"
)

// S3Config holds S3 warehouse settings.
type S3Config struct {
	Bucket      string
	Prefix      string
	Region      string
	Profile     string
	Endpoint    string
	PathStyle   bool
	Credentials aws.Credentials
}

// Config selects and parameterizes the warehouse target.
type Config struct {
	Target      string // "s3", "local", "postgres" or "parquet"
	Dir         string // Output directory for "local" and "parquet"
	PostgresDSN string
	S3          S3Config
}

// Warehouse persists finalized tables to the configured target. Tables are
// written in name order so reruns produce the same upload sequence.
type Warehouse struct {
	sink core.TableSink
}

// NewWarehouse builds the warehouse for the configured target. Unknown
// targets are rejected before any I/O happens.
func NewWarehouse(ctx context.Context, cfg Config, registry *schema.Registry) (*Warehouse, error) {
	switch cfg.Target {
	case "s3":
		sink, err := writers.NewS3Writer(ctx,
			writers.WithS3WriterBucket(cfg.S3.Bucket),
			writers.WithS3WriterPrefix(cfg.S3.Prefix),
			writers.WithS3WriterRegion(cfg.S3.Region),
			writers.WithS3WriterProfile(cfg.S3.Profile),
			writers.WithS3WriterCredentials(cfg.S3.Credentials),
			writers.WithS3WriterEndpoint(cfg.S3.Endpoint),
			writers.WithS3WriterPathStyle(cfg.S3.PathStyle),
		)
		if err != nil {
			return nil, err
		}
		return &Warehouse{sink: sink}, nil
	case "local":
		return &Warehouse{sink: &localCSVSink{dir: cfg.Dir}}, nil
	case "postgres":
		sink, err := writers.NewPostgresWriter(
			writers.WithPostgresDSN(cfg.PostgresDSN),
			writers.WithPostgresRegistry(registry),
		)
		if err != nil {
			return nil, err
		}
		return &Warehouse{sink: sink}, nil
	case "parquet":
		sink, err := writers.NewParquetWriter(cfg.Dir, registry)
		if err != nil {
			return nil, err
		}
		return &Warehouse{sink: sink}, nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrBadWarehouseTarget, cfg.Target)
	}
}

// Persist writes every table in the map. The first failure aborts the run.
func (w *Warehouse) Persist(ctx context.Context, tables map[string]*core.Table) error {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := w.sink.WriteTable(ctx, tables[name]); err != nil {
			return fmt.Errorf("persist %s: %w", name, err)
		}
	}
	return nil
}

// Close releases the underlying sink.
func (w *Warehouse) Close() error {
	return w.sink.Close()
}

// localCSVSink writes each table to <dir>/<table>.csv.
type localCSVSink struct {
	dir string
}

func (s *localCSVSink) WriteTable(ctx context.Context, table *core.Table) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, table.Name()+".csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := writers.EncodeTableCSV(file, table); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (s *localCSVSink) Close() error {
	return nil
}

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

// Package extract resolves a retrieval target to a streaming DataSource and
// materializes it into a raw table for validation.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/readers"
)

// TimestampLayout is the wire format for window bounds, matching the
// scheduler's ISO-like timestamps.
const TimestampLayout = "2006-01-02 15:04:05.999999"

// Window is a half-open ingestion time range [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Bounded reports whether the window carries any bound.
func (w Window) Bounded() bool {
	return !w.Start.IsZero() || !w.End.IsZero()
}

// ParseWindow parses the scheduler's start/end timestamps. Empty strings
// yield an unbounded window.
func ParseWindow(start, end string) (Window, error) {
	var w Window
	var err error
	if start != "" {
		w.Start, err = time.Parse(TimestampLayout, start)
		if err != nil {
			return Window{}, fmt.Errorf("bad start timestamp %q: %w", start, err)
		}
	}
	if end != "" {
		w.End, err = time.Parse(TimestampLayout, end)
		if err != nil {
			return Window{}, fmt.Errorf("bad end timestamp %q: %w", end, err)
		}
	}
	if w.Bounded() && !w.End.After(w.Start) {
		return Window{}, fmt.Errorf("window end %q is not after start %q", end, start)
	}
	return w, nil
}

// APIConfig holds HTTP retrieval settings.
type APIConfig struct {
	URL   string
	Token string
}

// S3Config holds S3 retrieval settings.
type S3Config struct {
	Bucket      string
	Prefix      string
	Region      string
	Profile     string
	Endpoint    string
	PathStyle   bool
	Credentials aws.Credentials
}

// MongoConfig holds MongoDB retrieval settings.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Config selects and parameterizes the retrieval target for one dataset.
type Config struct {
	Target  string // "api", "local", "s3" or "mongo"
	Dataset string // Raw dataset name, e.g. "reviews"
	Path    string // Local CSV path for target "local"
	API     APIConfig
	S3      S3Config
	Mongo   MongoConfig
}

// NewSource builds the DataSource for the configured retrieval target.
// Unknown targets are rejected before any I/O happens.
func NewSource(ctx context.Context, cfg Config, window Window) (core.DataSource, error) {
	switch cfg.Target {
	case "api":
		opts := []readers.APIReaderOption{}
		if window.Bounded() {
			opts = append(opts, readers.WithAPIWindow(window.Start, window.End))
		}
		return readers.NewAPIReader(cfg.API.URL, cfg.API.Token, opts...), nil
	case "local":
		file, err := os.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
		}
		reader, err := readers.NewCSVReader(file)
		if err != nil {
			file.Close()
			return nil, err
		}
		return reader, nil
	case "s3":
		return readers.NewS3Reader(ctx,
			readers.WithS3Bucket(cfg.S3.Bucket),
			readers.WithS3Prefix(cfg.S3.Prefix),
			readers.WithS3Region(cfg.S3.Region),
			readers.WithS3Profile(cfg.S3.Profile),
			readers.WithS3Credentials(cfg.S3.Credentials),
			readers.WithS3Endpoint(cfg.S3.Endpoint),
			readers.WithS3PathStyle(cfg.S3.PathStyle),
		)
	case "mongo":
		opts := []readers.ReaderOptionMongo{
			readers.WithMongoURI(cfg.Mongo.URI),
			readers.WithMongoDB(cfg.Mongo.Database),
			readers.WithMongoCollection(cfg.Mongo.Collection),
		}
		if window.Bounded() {
			opts = append(opts, readers.WithMongoWindow(window.Start, window.End))
		}
		return readers.NewMongoReader(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrBadRetrievalTarget, cfg.Target)
	}
}

// headerSource is implemented by sources that know their own column order.
type headerSource interface {
	Headers() []string
}

// Materialize drains a DataSource into a raw table. Sources that report
// their own header order (CSV) keep it, so the raw schema check still sees
// whatever order the file actually had. Map-shaped sources fall back to the
// expected column order; since that order can never mismatch, each record is
// checked for field presence instead.
func Materialize(ctx context.Context, src core.DataSource, name string, columns []string) (*core.Table, error) {
	checkFields := true
	if hs, ok := src.(headerSource); ok {
		if headers := hs.Headers(); len(headers) > 0 {
			columns = headers
			checkFields = false
		}
	}

	table := core.NewTable(name, columns)
	for {
		record, err := src.Read(ctx)
		if err == io.EOF {
			return table, nil
		}
		if err != nil {
			return nil, err
		}
		if checkFields {
			for _, col := range columns {
				if _, ok := record[col]; !ok {
					return nil, fmt.Errorf("%w: record %d of %s is missing field %q",
						core.ErrSchemaMismatch, table.Len(), name, col)
				}
			}
		}
		table.AppendRow(record)
	}
}

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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/memory"
	"github.com/apache/arrow/go/v12/parquet"
	"github.com/apache/arrow/go/v12/parquet/compress"
	"github.com/apache/arrow/go/v12/parquet/pqarrow"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
)

// ParquetWriterError wraps Parquet-specific write errors with context about the operation.
type ParquetWriterError struct {
	Op  string // Operation that failed (e.g., "open_file", "schema", "write")
	Err error  // Underlying error
}

func (e *ParquetWriterError) Error() string {
	return fmt.Sprintf("parquet writer %s: %v", e.Op, e.Err)
}

func (e *ParquetWriterError) Unwrap() error {
	return e.Err
}

// ParquetWriterStats holds statistics about Parquet output.
type ParquetWriterStats struct {
	TablesWritten int64
	RowsWritten   int64
	WriteDuration time.Duration
	LastWriteTime time.Time
}

// ParquetWriterOptions configures the Parquet writer.
type ParquetWriterOptions struct {
	Compression compress.Compression
	Allocator   memory.Allocator
}

// ParquetWriterOption represents a configuration function for ParquetWriterOptions.
type ParquetWriterOption func(*ParquetWriterOptions)

// WithParquetCompression sets the Parquet compression algorithm.
func WithParquetCompression(compression compress.Compression) ParquetWriterOption {
	return func(opts *ParquetWriterOptions) {
		opts.Compression = compression
	}
}

// WithParquetAllocator sets the Arrow memory allocator.
func WithParquetAllocator(alloc memory.Allocator) ParquetWriterOption {
	return func(opts *ParquetWriterOptions) {
		opts.Allocator = alloc
	}
}

// ParquetWriter implements core.TableSink for Parquet output. Each table is
// written to <dir>/<table>.parquet with an Arrow schema derived from the
// table's column catalog.
type ParquetWriter struct {
	dir      string
	registry *schema.Registry
	opts     ParquetWriterOptions
	stats    ParquetWriterStats
}

// NewParquetWriter creates a writer that emits one Parquet file per table
// under dir.
func NewParquetWriter(dir string, registry *schema.Registry, options ...ParquetWriterOption) (*ParquetWriter, error) {
	opts := ParquetWriterOptions{
		Compression: compress.Codecs.Snappy,
		Allocator:   memory.NewGoAllocator(),
	}
	for _, option := range options {
		option(&opts)
	}

	if registry == nil {
		return nil, &ParquetWriterError{Op: "validate", Err: fmt.Errorf("schema registry is required")}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &ParquetWriterError{Op: "create_dir", Err: err}
	}

	return &ParquetWriter{dir: dir, registry: registry, opts: opts}, nil
}

// WriteTable implements the core.TableSink interface.
func (p *ParquetWriter) WriteTable(ctx context.Context, table *core.Table) error {
	select {
	case <-ctx.Done():
		return &ParquetWriterError{Op: "write", Err: ctx.Err()}
	default:
	}

	start := time.Now()

	spec, err := p.registry.Spec(table.Name())
	if err != nil {
		return &ParquetWriterError{Op: "lookup_schema", Err: err}
	}

	arrowSchema, err := arrowSchemaFor(spec.Types)
	if err != nil {
		return &ParquetWriterError{Op: "schema", Err: err}
	}

	rec, err := buildArrowRecord(p.opts.Allocator, arrowSchema, table)
	if err != nil {
		return err
	}
	defer rec.Release()

	path := filepath.Join(p.dir, table.Name()+".parquet")
	file, err := os.Create(path)
	if err != nil {
		return &ParquetWriterError{Op: "open_file", Err: err}
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(p.opts.Compression))
	writer, err := pqarrow.NewFileWriter(arrowSchema, file, props, pqarrow.DefaultWriterProps())
	if err != nil {
		file.Close()
		return &ParquetWriterError{Op: "create_writer", Err: err}
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return &ParquetWriterError{Op: "write", Err: err}
	}
	if err := writer.Close(); err != nil {
		return &ParquetWriterError{Op: "close_file", Err: err}
	}

	p.stats.TablesWritten++
	p.stats.RowsWritten += int64(table.Len())
	p.stats.WriteDuration += time.Since(start)
	p.stats.LastWriteTime = time.Now()
	return nil
}

// Close implements the core.TableSink interface.
func (p *ParquetWriter) Close() error {
	return nil
}

// Stats returns write statistics.
func (p *ParquetWriter) Stats() ParquetWriterStats {
	return p.stats
}

// arrowSchemaFor maps the column catalog onto an Arrow schema, preserving
// column order. Every field is nullable; the null engine upstream decides
// what actually survives.
func arrowSchemaFor(types schema.TypeSchema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, types.Len())
	for _, col := range types.Columns() {
		var dt arrow.DataType
		switch col.Type {
		case schema.TypeString:
			dt = arrow.BinaryTypes.String
		case schema.TypeInteger:
			dt = arrow.PrimitiveTypes.Int64
		case schema.TypeFloat:
			dt = arrow.PrimitiveTypes.Float64
		case schema.TypeBoolean:
			dt = arrow.FixedWidthTypes.Boolean
		default:
			return nil, fmt.Errorf("column %q has unsupported type %q", col.Column, col.Type)
		}
		fields = append(fields, arrow.Field{Name: col.Column, Type: dt, Nullable: true})
	}
	return arrow.NewSchema(fields, nil), nil
}

// buildArrowRecord converts the table into a single Arrow record batch.
func buildArrowRecord(alloc memory.Allocator, arrowSchema *arrow.Schema, table *core.Table) (arrow.Record, error) {
	fields := arrowSchema.Fields()
	builders := make([]array.Builder, len(fields))
	for i, field := range fields {
		builders[i] = array.NewBuilder(alloc, field.Type)
	}
	defer func() {
		for _, b := range builders {
			b.Release()
		}
	}()

	for i := 0; i < table.Len(); i++ {
		for j, field := range fields {
			v := table.Value(i, field.Name)
			if v.IsNull() {
				builders[j].AppendNull()
				continue
			}
			if err := appendValue(builders[j], v, field.Name); err != nil {
				return nil, err
			}
		}
	}

	arrays := make([]arrow.Array, len(builders))
	for i, b := range builders {
		arrays[i] = b.NewArray()
	}
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	return array.NewRecord(arrowSchema, arrays, int64(table.Len())), nil
}

// appendValue appends one cell to the matching Arrow builder.
func appendValue(builder array.Builder, v core.Value, fieldName string) error {
	switch b := builder.(type) {
	case *array.StringBuilder:
		if v.Kind() != core.KindString {
			return &ParquetWriterError{Op: "append", Err: fmt.Errorf("field %s: expected string, got %v", fieldName, v.Kind())}
		}
		b.Append(v.Str())
	case *array.Int64Builder:
		if v.Kind() != core.KindInt {
			return &ParquetWriterError{Op: "append", Err: fmt.Errorf("field %s: expected integer, got %v", fieldName, v.Kind())}
		}
		b.Append(v.IntVal())
	case *array.Float64Builder:
		if v.Kind() != core.KindFloat {
			return &ParquetWriterError{Op: "append", Err: fmt.Errorf("field %s: expected float, got %v", fieldName, v.Kind())}
		}
		b.Append(v.FloatVal())
	case *array.BooleanBuilder:
		if v.Kind() != core.KindBool {
			return &ParquetWriterError{Op: "append", Err: fmt.Errorf("field %s: expected boolean, got %v", fieldName, v.Kind())}
		}
		b.Append(v.BoolVal())
	default:
		return &ParquetWriterError{Op: "append", Err: fmt.Errorf("unsupported builder type for field %s", fieldName)}
	}
	return nil
}

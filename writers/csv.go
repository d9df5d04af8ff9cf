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
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/aaronlmathis/reviewmart/core"
)

// CSVWriterError wraps CSV-specific write errors with context.
type CSVWriterError struct {
	Op  string
	Err error
}

func (e *CSVWriterError) Error() string {
	return fmt.Sprintf("csv writer %s: %v", e.Op, e.Err)
}

func (e *CSVWriterError) Unwrap() error {
	return e.Err
}

// CSVWriterStats holds CSV write statistics.
type CSVWriterStats struct {
	TablesWritten int64
	RowsWritten   int64
	WriteDuration time.Duration
	LastWriteTime time.Time
}

// CSVWriterOptions configures CSV output.
type CSVWriterOptions struct {
	Comma       rune
	UseCRLF     bool
	WriteHeader bool
}

// WriterOptionCSV is a functional option.
type WriterOptionCSV func(*CSVWriterOptions)

func WithComma(delim rune) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.Comma = delim
	}
}

func WithWriteHeader(write bool) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.WriteHeader = write
	}
}

func WithUseCRLF(useCRLF bool) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.UseCRLF = useCRLF
	}
}

// CSVWriter implements core.TableSink for CSV output. Columns are emitted
// in table order, nulls as empty cells.
type CSVWriter struct {
	writer  *csv.Writer
	closer  io.Closer
	options CSVWriterOptions
	stats   CSVWriterStats
}

// NewCSVWriter creates a new CSV writer over w.
func NewCSVWriter(w io.WriteCloser, opts ...WriterOptionCSV) *CSVWriter {
	options := CSVWriterOptions{
		Comma:       ',',
		UseCRLF:     false,
		WriteHeader: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	cw := csv.NewWriter(w)
	cw.Comma = options.Comma
	cw.UseCRLF = options.UseCRLF

	return &CSVWriter{
		writer:  cw,
		closer:  w,
		options: options,
	}
}

// WriteTable implements the core.TableSink interface.
func (c *CSVWriter) WriteTable(ctx context.Context, table *core.Table) error {
	select {
	case <-ctx.Done():
		return &CSVWriterError{Op: "write", Err: ctx.Err()}
	default:
	}

	start := time.Now()
	if err := encodeTable(c.writer, table, c.options.WriteHeader); err != nil {
		return err
	}

	c.stats.TablesWritten++
	c.stats.RowsWritten += int64(table.Len())
	c.stats.WriteDuration += time.Since(start)
	c.stats.LastWriteTime = time.Now()
	return nil
}

// Close implements the core.TableSink interface.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return &CSVWriterError{Op: "flush", Err: err}
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

// Stats returns write statistics.
func (c *CSVWriter) Stats() CSVWriterStats {
	return c.stats
}

// EncodeTableCSV renders a table as CSV in the table's column order,
// with a header row. Used by warehouse targets that need the document
// in memory before shipping it.
func EncodeTableCSV(w io.Writer, table *core.Table) error {
	cw := csv.NewWriter(w)
	return encodeTable(cw, table, true)
}

func encodeTable(cw *csv.Writer, table *core.Table, header bool) error {
	columns := table.Columns()

	if header {
		if err := cw.Write(columns); err != nil {
			return &CSVWriterError{Op: "write_header", Err: err}
		}
	}

	row := make([]string, len(columns))
	for i := 0; i < table.Len(); i++ {
		for j, col := range columns {
			v := table.Value(i, col)
			if v.IsNull() {
				row[j] = ""
			} else {
				row[j] = v.Format()
			}
		}
		if err := cw.Write(row); err != nil {
			return &CSVWriterError{Op: "write_row", Err: err}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &CSVWriterError{Op: "flush", Err: err}
	}
	return nil
}

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
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
)

// PostgresWriterError wraps PostgreSQL-specific write errors with context about the operation.
type PostgresWriterError struct {
	Op  string // The operation being performed (e.g., "write", "connect")
	Err error  // The underlying error
}

func (e *PostgresWriterError) Error() string {
	return fmt.Sprintf("postgres writer %s: %v", e.Op, e.Err)
}

func (e *PostgresWriterError) Unwrap() error {
	return e.Err
}

// PostgresWriterStats holds PostgreSQL write statistics.
type PostgresWriterStats struct {
	TablesWritten    int64
	RowsWritten      int64
	BatchesWritten   int64
	TransactionCount int64
	LastWriteTime    time.Time
	WriteDuration    time.Duration
}

// PostgresWriterOptions configures the PostgreSQL writer.
type PostgresWriterOptions struct {
	DSN             string           // PostgreSQL connection string
	Registry        *schema.Registry // Column types for DDL generation
	CreateTable     bool             // Create table if not exists
	TruncateTable   bool             // Truncate table before writing
	BatchSize       int              // Rows per multi-row INSERT
	MaxOpenConns    int              // Max open connections
	MaxIdleConns    int              // Max idle connections
	ConnMaxLifetime time.Duration    // Max connection lifetime
}

// PostgresWriterOption represents a configuration function for PostgresWriterOptions.
type PostgresWriterOption func(*PostgresWriterOptions)

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		opts.DSN = dsn
	}
}

// WithPostgresRegistry supplies the column catalog used to derive DDL.
func WithPostgresRegistry(registry *schema.Registry) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		opts.Registry = registry
	}
}

// WithCreateTable enables or disables table creation.
func WithCreateTable(create bool) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		opts.CreateTable = create
	}
}

// WithTruncateTable enables or disables table truncation before writing.
func WithTruncateTable(truncate bool) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		opts.TruncateTable = truncate
	}
}

// WithPostgresBatchSize sets the number of rows per INSERT statement.
func WithPostgresBatchSize(size int) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		if size > 0 {
			opts.BatchSize = size
		}
	}
}

// WithPostgresConnectionPool configures the connection pool.
func WithPostgresConnectionPool(maxOpen, maxIdle int, maxLifetime time.Duration) PostgresWriterOption {
	return func(opts *PostgresWriterOptions) {
		opts.MaxOpenConns = maxOpen
		opts.MaxIdleConns = maxIdle
		opts.ConnMaxLifetime = maxLifetime
	}
}

// PostgresWriter implements core.TableSink for PostgreSQL output. Each table
// is replaced wholesale: optional CREATE TABLE IF NOT EXISTS, TRUNCATE, then
// batched multi-row INSERTs inside one transaction.
type PostgresWriter struct {
	db      *sql.DB
	options PostgresWriterOptions
	stats   PostgresWriterStats
}

// NewPostgresWriter creates a new PostgreSQL writer with the given options.
func NewPostgresWriter(opts ...PostgresWriterOption) (*PostgresWriter, error) {
	options := PostgresWriterOptions{
		CreateTable:     true,
		TruncateTable:   true,
		BatchSize:       500,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.DSN == "" {
		return nil, &PostgresWriterError{Op: "validate", Err: fmt.Errorf("DSN is required")}
	}
	if options.Registry == nil {
		return nil, &PostgresWriterError{Op: "validate", Err: fmt.Errorf("schema registry is required")}
	}

	db, err := sql.Open("postgres", options.DSN)
	if err != nil {
		return nil, &PostgresWriterError{Op: "connect", Err: err}
	}
	db.SetMaxOpenConns(options.MaxOpenConns)
	db.SetMaxIdleConns(options.MaxIdleConns)
	db.SetConnMaxLifetime(options.ConnMaxLifetime)

	return &PostgresWriter{db: db, options: options}, nil
}

// WriteTable implements the core.TableSink interface.
func (w *PostgresWriter) WriteTable(ctx context.Context, table *core.Table) error {
	start := time.Now()

	spec, err := w.options.Registry.Spec(table.Name())
	if err != nil {
		return &PostgresWriterError{Op: "lookup_schema", Err: err}
	}

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return &PostgresWriterError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	if w.options.CreateTable {
		if _, err := tx.ExecContext(ctx, createTableSQL(table.Name(), spec.Types)); err != nil {
			return &PostgresWriterError{Op: "create_table", Err: err}
		}
	}
	if w.options.TruncateTable {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", quoteIdent(table.Name()))); err != nil {
			return &PostgresWriterError{Op: "truncate", Err: err}
		}
	}

	columns := table.Columns()
	for offset := 0; offset < table.Len(); offset += w.options.BatchSize {
		end := offset + w.options.BatchSize
		if end > table.Len() {
			end = table.Len()
		}
		if err := w.insertBatch(ctx, tx, table, columns, offset, end); err != nil {
			return err
		}
		w.stats.BatchesWritten++
	}

	if err := tx.Commit(); err != nil {
		return &PostgresWriterError{Op: "commit", Err: err}
	}

	w.stats.TablesWritten++
	w.stats.RowsWritten += int64(table.Len())
	w.stats.TransactionCount++
	w.stats.WriteDuration += time.Since(start)
	w.stats.LastWriteTime = time.Now()
	return nil
}

// Close implements the core.TableSink interface.
func (w *PostgresWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	if err != nil {
		return &PostgresWriterError{Op: "close", Err: err}
	}
	return nil
}

// Stats returns write statistics.
func (w *PostgresWriter) Stats() PostgresWriterStats {
	return w.stats
}

func (w *PostgresWriter) insertBatch(ctx context.Context, tx *sql.Tx, table *core.Table, columns []string, from, to int) error {
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ",
		quoteIdent(table.Name()), strings.Join(quoted, ", ")))

	args := make([]interface{}, 0, (to-from)*len(columns))
	placeholder := 1
	for i := from; i < to; i++ {
		if i > from {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, col := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", placeholder)
			placeholder++
			args = append(args, sqlValue(table.Value(i, col)))
		}
		sb.WriteString(")")
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return &PostgresWriterError{Op: "insert", Err: err}
	}
	return nil
}

// sqlValue converts a cell to a driver-compatible value, nulls included.
func sqlValue(v core.Value) interface{} {
	switch v.Kind() {
	case core.KindNull:
		return nil
	case core.KindString:
		return v.Str()
	case core.KindInt:
		return v.IntVal()
	case core.KindFloat:
		return v.FloatVal()
	case core.KindBool:
		return v.BoolVal()
	default:
		return v.Format()
	}
}

// createTableSQL derives DDL from the table's column catalog.
func createTableSQL(table string, types schema.TypeSchema) string {
	defs := make([]string, 0, types.Len())
	for _, col := range types.Columns() {
		defs = append(defs, fmt.Sprintf("%s %s", quoteIdent(col.Column), pgType(col.Type)))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
}

func pgType(t schema.FieldType) string {
	switch t {
	case schema.TypeInteger:
		return "BIGINT"
	case schema.TypeFloat:
		return "DOUBLE PRECISION"
	case schema.TypeBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

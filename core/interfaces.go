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

import "context"

// DataSource streams raw records from an extract collaborator (CSV files,
// the reviews API, S3, MongoDB). Implementations decode nested literal
// fields into structured Values at ingestion, so the transform core never
// sees text-encoded lists or dicts.
type DataSource interface {
	// Read returns the next record or io.EOF when no more records are available.
	Read(ctx context.Context) (Record, error)
	// Close releases any resources held by the data source.
	Close() error
}

// TableSink persists one finished output table. Implementations must write
// the table unchanged: the reshaper's output is already validated, typed
// and deduplicated.
type TableSink interface {
	// WriteTable persists a single output table.
	WriteTable(ctx context.Context, table *Table) error
	// Close releases any resources held by the sink.
	Close() error
}

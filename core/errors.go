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

import "errors"

// Package core defines the failure taxonomy of the pipeline. All failures
// are fatal for the current table family: there are no internal retries and
// no partial tables. Callers match with errors.Is and let the orchestrator
// own retry policy.

var (
	// ErrUnknownDataset means no raw schema is registered for a dataset name.
	ErrUnknownDataset = errors.New("unknown dataset")

	// ErrSchemaMismatch means a column list did not match its declared
	// schema, either at the raw boundary or before type coercion.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrPrimaryKeyViolation means a PK-policy column held duplicate values.
	ErrPrimaryKeyViolation = errors.New("primary key violation")

	// ErrMalformedField means a nested field could not be decoded or had an
	// unexpected shape (helpfulness pair, sales rank dict, category lists,
	// related-items dict, review date).
	ErrMalformedField = errors.New("malformed field")

	// ErrTypeCoercion means a value could not be cast to its declared type.
	ErrTypeCoercion = errors.New("type coercion failed")

	// ErrBadRetrievalTarget means the extract source selector is invalid.
	ErrBadRetrievalTarget = errors.New("incorrect retrieval specification")

	// ErrBadWarehouseTarget means the load target selector is invalid.
	ErrBadWarehouseTarget = errors.New("incorrect DWH specification")
)

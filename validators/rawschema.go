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

// rawschema.go - fail-fast raw column-order validation at the extract boundary
package validators

import (
	"fmt"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
)

// Package validators guards every stage transition of the transform: the
// raw schema check on entry, the null-handling pass, and the type coercion
// pass that produces the final typed tables.

// ValidateRawData compares a raw table's column list, in order, against the
// registered raw schema for the dataset name. Any difference - extra,
// missing, reordered or renamed columns - is core.ErrSchemaMismatch, and the
// run must stop: downstream projections assume field positions.
func ValidateRawData(table *core.Table, registry *schema.Registry, dataset string) error {
	expected, err := registry.RawColumns(dataset)
	if err != nil {
		return err
	}
	got := table.Columns()
	if len(got) != len(expected) {
		return fmt.Errorf("%w: dataset %q has %d columns, schema expects %d",
			core.ErrSchemaMismatch, dataset, len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			return fmt.Errorf("%w: dataset %q column %d is %q, schema expects %q",
				core.ErrSchemaMismatch, dataset, i, got[i], expected[i])
		}
	}
	return nil
}

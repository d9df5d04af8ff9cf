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

// nulls.go - per-column null policies: PK uniqueness, drops, fills
package validators

import (
	"fmt"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
)

// ProcessNulls applies a table's null policy rule by rule, in document
// order. Drop rules shrink the table before later rules run, so a PK check
// only sees rows that survived earlier drops. The input table is never
// mutated; the returned table is a fresh copy.
//
// This is the only stage that can abort a run outright: a duplicate value
// under a PK rule returns core.ErrPrimaryKeyViolation and no table.
func ProcessNulls(table *core.Table, policy schema.NullPolicy) (*core.Table, error) {
	current := table
	for _, rule := range policy.Rules() {
		if !current.HasColumn(rule.Column) {
			return nil, fmt.Errorf("null policy: table %s has no column %q", table.Name(), rule.Column)
		}
		switch rule.Kind {
		case schema.PolicyPrimaryKey:
			if err := checkUnique(current, rule.Column); err != nil {
				return nil, err
			}
		case schema.PolicyDrop, schema.PolicyPrimaryKeyMultiple:
			col := rule.Column
			current = current.Filter(func(r core.Record) bool {
				return !r[col].IsNull()
			})
		case schema.PolicyFill:
			col := rule.Column
			fill := rule.Fill
			filled, err := current.MapRows(func(r core.Record) (core.Record, error) {
				if r[col].IsNull() {
					r[col] = fill
				}
				return r, nil
			})
			if err != nil {
				return nil, err
			}
			current = filled
		}
	}
	if current == table {
		// All rules were checks; still hand back a copy the caller owns.
		current = table.Clone()
	}
	return current, nil
}

// checkUnique fails with core.ErrPrimaryKeyViolation when any non-null
// value occurs more than once in the column. Nulls are not counted; a null
// key is a DROP concern, not a duplication one.
func checkUnique(table *core.Table, column string) error {
	counts := make(map[string]int, table.Len())
	for _, v := range table.Column(column) {
		if v.IsNull() {
			continue
		}
		key := v.Key()
		counts[key]++
		if counts[key] > 1 {
			return fmt.Errorf("%w: %s - supposedly PK - is not unique (value %q)",
				core.ErrPrimaryKeyViolation, column, v.Format())
		}
	}
	return nil
}

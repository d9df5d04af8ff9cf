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

package reshape

import (
	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
	"github.com/aaronlmathis/reviewmart/validators"
)

// Package reshape splits a validated raw dataset into its star-schema
// output tables. Each table goes through the same fixed tail: rename, then
// null handling, then type coercion - in that order, because coercion
// assumes nulls are already resolved and the null policies are keyed by
// the renamed column names.

// finalizeStep lets a table family inject a post-rename augmentation, like
// deriving date_string on the date dimension.
type finalizeStep func(*core.Table) (*core.Table, error)

// finalize runs the shared rename -> nulls -> coerce tail for one table.
func finalize(table *core.Table, registry *schema.Registry, postRename ...finalizeStep) (*core.Table, error) {
	spec, err := registry.Spec(table.Name())
	if err != nil {
		return nil, err
	}

	current := table.Renamed(spec.Rename)
	for _, step := range postRename {
		if current, err = step(current); err != nil {
			return nil, err
		}
	}
	if current, err = validators.ProcessNulls(current, spec.Nulls); err != nil {
		return nil, err
	}
	return validators.ConvertDataTypes(current, spec.Types)
}

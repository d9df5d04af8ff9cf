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

// coerce.go - declared-type casting with a strict column-set precondition
package validators

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
)

// ConvertDataTypes casts every column of the table to its declared type.
// Precondition: the table's column list is equal, element by element and in
// order, to the type schema's key list; any difference is
// core.ErrSchemaMismatch. Must run after null handling - a null reaching a
// cast is a core.ErrTypeCoercion failure, not a silent pass.
func ConvertDataTypes(table *core.Table, types schema.TypeSchema) (*core.Table, error) {
	declared := types.ColumnNames()
	got := table.Columns()
	if len(got) != len(declared) {
		return nil, fmt.Errorf("%w: table %s has %d columns, type schema declares %d",
			core.ErrSchemaMismatch, table.Name(), len(got), len(declared))
	}
	for i := range declared {
		if got[i] != declared[i] {
			return nil, fmt.Errorf("%w: table %s column %d is %q, type schema declares %q",
				core.ErrSchemaMismatch, table.Name(), i, got[i], declared[i])
		}
	}

	columns := types.Columns()
	return table.MapRows(func(r core.Record) (core.Record, error) {
		for _, ct := range columns {
			cast, err := coerceValue(r[ct.Column], ct.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: table %s column %q value %q: %v",
					core.ErrTypeCoercion, table.Name(), ct.Column, r[ct.Column].Format(), err)
			}
			r[ct.Column] = cast
		}
		return r, nil
	})
}

// coerceValue casts a single value to the target scalar type.
func coerceValue(v core.Value, target schema.FieldType) (core.Value, error) {
	if v.IsNull() {
		return core.Null(), fmt.Errorf("null value (null handling must run first)")
	}
	switch target {
	case schema.TypeString:
		return coerceString(v)
	case schema.TypeInteger:
		return coerceInteger(v)
	case schema.TypeFloat:
		return coerceFloat(v)
	case schema.TypeBoolean:
		return coerceBoolean(v)
	default:
		return core.Null(), fmt.Errorf("unsupported target type %q", target)
	}
}

func coerceString(v core.Value) (core.Value, error) {
	switch v.Kind() {
	case core.KindString:
		return v, nil
	case core.KindInt, core.KindFloat, core.KindBool:
		return core.String(v.Format()), nil
	default:
		return core.Null(), fmt.Errorf("cannot cast %s to string", v.Kind())
	}
}

func coerceInteger(v core.Value) (core.Value, error) {
	switch v.Kind() {
	case core.KindInt:
		return v, nil
	case core.KindFloat:
		return core.Int(int64(v.FloatVal())), nil
	case core.KindString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
		if err != nil {
			return core.Null(), fmt.Errorf("cannot cast string to integer")
		}
		return core.Int(i), nil
	default:
		return core.Null(), fmt.Errorf("cannot cast %s to integer", v.Kind())
	}
}

func coerceFloat(v core.Value) (core.Value, error) {
	switch v.Kind() {
	case core.KindFloat:
		return v, nil
	case core.KindInt:
		return core.Float(float64(v.IntVal())), nil
	case core.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		if err != nil {
			return core.Null(), fmt.Errorf("cannot cast string to float")
		}
		return core.Float(f), nil
	default:
		return core.Null(), fmt.Errorf("cannot cast %s to float", v.Kind())
	}
}

func coerceBoolean(v core.Value) (core.Value, error) {
	switch v.Kind() {
	case core.KindBool:
		return v, nil
	case core.KindInt:
		return core.Bool(v.IntVal() != 0), nil
	case core.KindString:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str()))
		if err != nil {
			return core.Null(), fmt.Errorf("cannot cast string to boolean")
		}
		return core.Bool(b), nil
	default:
		return core.Null(), fmt.Errorf("cannot cast %s to boolean", v.Kind())
	}
}

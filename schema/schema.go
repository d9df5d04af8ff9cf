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

package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/aaronlmathis/reviewmart/core"
)

// Package schema holds the four declarative documents that parameterize the
// transform: raw column order per dataset, column renames per table, target
// data types per table, and null-handling policies per table. The type and
// null documents are order-sensitive, so they decode through yaml.Node
// instead of plain maps.

// FieldType names a target scalar type in the type document.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeFloat   FieldType = "float"
	TypeBoolean FieldType = "boolean"
)

// ColumnType is one ordered entry of a TypeSchema.
type ColumnType struct {
	Column string
	Type   FieldType
}

// TypeSchema is the ordered mapping from column name to target type for one
// output table. Its key order must equal the table's exact column order.
type TypeSchema struct {
	columns []ColumnType
}

// Columns returns the ordered entries.
func (ts TypeSchema) Columns() []ColumnType {
	return append([]ColumnType(nil), ts.columns...)
}

// ColumnNames returns just the ordered column names.
func (ts TypeSchema) ColumnNames() []string {
	names := make([]string, len(ts.columns))
	for i, ct := range ts.columns {
		names[i] = ct.Column
	}
	return names
}

// Len returns the number of declared columns.
func (ts TypeSchema) Len() int { return len(ts.columns) }

// UnmarshalYAML decodes a mapping node while preserving its key order.
func (ts *TypeSchema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("type schema: expected a mapping, got %v", node.Kind)
	}
	ts.columns = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := FieldType(node.Content[i+1].Value)
		switch val {
		case TypeString, TypeInteger, TypeFloat, TypeBoolean:
		default:
			return fmt.Errorf("type schema: column %q has unsupported type %q", key, val)
		}
		ts.columns = append(ts.columns, ColumnType{Column: key, Type: val})
	}
	return nil
}

// PolicyKind discriminates null-handling rules.
type PolicyKind int

const (
	// PolicyPrimaryKey fails the run when the column has duplicate values.
	PolicyPrimaryKey PolicyKind = iota
	// PolicyDrop removes rows where the column is null.
	PolicyDrop
	// PolicyPrimaryKeyMultiple removes null rows without enforcing
	// uniqueness; used for the long one-to-many tables.
	PolicyPrimaryKeyMultiple
	// PolicyFill replaces nulls with a literal.
	PolicyFill
)

// Policy document markers. Anything else is a fill literal.
const (
	markerPrimaryKey         = "PK"
	markerDrop               = "DROP"
	markerPrimaryKeyMultiple = "PK Multiple"
)

// NullRule is one ordered entry of a NullPolicy.
type NullRule struct {
	Column string
	Kind   PolicyKind
	Fill   core.Value
}

// NullPolicy is the ordered null-handling document for one output table.
// Rule order matters: drops are cumulative, so earlier rules change which
// rows later rules see.
type NullPolicy struct {
	rules []NullRule
}

// Rules returns the ordered entries.
func (np NullPolicy) Rules() []NullRule {
	return append([]NullRule(nil), np.rules...)
}

// UnmarshalYAML decodes a mapping node while preserving its key order.
func (np *NullPolicy) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("null policy: expected a mapping, got %v", node.Kind)
	}
	np.rules = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		rule := NullRule{Column: key}
		switch val.Value {
		case markerPrimaryKey:
			rule.Kind = PolicyPrimaryKey
		case markerDrop:
			rule.Kind = PolicyDrop
		case markerPrimaryKeyMultiple:
			rule.Kind = PolicyPrimaryKeyMultiple
		default:
			rule.Kind = PolicyFill
			fill, err := scalarValue(val)
			if err != nil {
				return fmt.Errorf("null policy: column %q: %w", key, err)
			}
			rule.Fill = fill
		}
		np.rules = append(np.rules, rule)
	}
	return nil
}

// scalarValue converts a YAML scalar node into a core.Value fill literal.
func scalarValue(node *yaml.Node) (core.Value, error) {
	if node.Kind != yaml.ScalarNode {
		return core.Null(), fmt.Errorf("fill literal must be a scalar")
	}
	switch node.Tag {
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return core.Null(), err
		}
		return core.Int(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return core.Null(), err
		}
		return core.Float(f), nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return core.Null(), err
		}
		return core.Bool(b), nil
	default:
		return core.String(node.Value), nil
	}
}

// TableSpec bundles everything needed to finalize one output table: its
// rename map, type schema and null policy. The reshaper iterates TableSpecs
// generically instead of unrolling the three lookups per table.
type TableSpec struct {
	Table  string
	Rename map[string]string
	Types  TypeSchema
	Nulls  NullPolicy
}

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
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/aaronlmathis/reviewmart/core"
)

//go:embed docs/*.yml
var defaultDocs embed.FS

// Registry loads and exposes the four schema documents. It is pure data:
// lookups only, no transform logic.
type Registry struct {
	raw     map[string][]string
	renames map[string]map[string]string
	types   map[string]TypeSchema
	nulls   map[string]NullPolicy
}

// Load reads the documents shipped with the binary.
func Load() (*Registry, error) {
	read := func(name string) []byte {
		data, err := defaultDocs.ReadFile("docs/" + name)
		if err != nil {
			// The files are embedded; a miss is a packaging bug.
			panic(fmt.Sprintf("schema: embedded document %s missing: %v", name, err))
		}
		return data
	}
	return LoadFrom(
		read("raw_schemas.yml"),
		read("renames.yml"),
		read("types.yml"),
		read("null_policies.yml"),
	)
}

// LoadFrom builds a Registry from the four YAML documents.
func LoadFrom(rawDoc, renameDoc, typeDoc, nullDoc []byte) (*Registry, error) {
	r := &Registry{}
	if err := yaml.Unmarshal(rawDoc, &r.raw); err != nil {
		return nil, fmt.Errorf("schema: raw schema document: %w", err)
	}
	if err := yaml.Unmarshal(renameDoc, &r.renames); err != nil {
		return nil, fmt.Errorf("schema: rename document: %w", err)
	}
	if err := yaml.Unmarshal(typeDoc, &r.types); err != nil {
		return nil, fmt.Errorf("schema: type document: %w", err)
	}
	if err := yaml.Unmarshal(nullDoc, &r.nulls); err != nil {
		return nil, fmt.Errorf("schema: null policy document: %w", err)
	}

	// Every table with a type schema needs a null policy and vice versa;
	// catching a half-specified table here beats a late lookup failure.
	for table := range r.types {
		if _, ok := r.nulls[table]; !ok {
			return nil, fmt.Errorf("schema: table %q has types but no null policy", table)
		}
	}
	for table := range r.nulls {
		if _, ok := r.types[table]; !ok {
			return nil, fmt.Errorf("schema: table %q has a null policy but no types", table)
		}
	}
	return r, nil
}

// RawColumns returns the expected ordered raw columns for a dataset name.
func (r *Registry) RawColumns(dataset string) ([]string, error) {
	cols, ok := r.raw[dataset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownDataset, dataset)
	}
	return append([]string(nil), cols...), nil
}

// Spec returns the bundled rename/type/null documents for one output table.
func (r *Registry) Spec(table string) (TableSpec, error) {
	types, ok := r.types[table]
	if !ok {
		return TableSpec{}, fmt.Errorf("%w: no type schema for table %q", core.ErrUnknownDataset, table)
	}
	nulls, ok := r.nulls[table]
	if !ok {
		return TableSpec{}, fmt.Errorf("%w: no null policy for table %q", core.ErrUnknownDataset, table)
	}
	rename := r.renames[table] // optional; flattened tables need none
	return TableSpec{Table: table, Rename: rename, Types: types, Nulls: nulls}, nil
}

// Tables returns all output table names, sorted.
func (r *Registry) Tables() []string {
	names := make([]string, 0, len(r.types))
	for table := range r.types {
		names = append(names, table)
	}
	sort.Strings(names)
	return names
}

// Datasets returns all raw dataset names, sorted.
func (r *Registry) Datasets() []string {
	names := make([]string, 0, len(r.raw))
	for name := range r.raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

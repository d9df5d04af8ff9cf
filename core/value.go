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

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Package core defines the tabular data model for the ReviewMart pipeline.
//
// Raw e-commerce feeds carry semi-structured fields: scalars mixed with
// text-encoded lists and dicts. Value is the tagged union that holds any
// field after ingestion, so nested structures are decoded exactly once and
// every later stage works on structured data.

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
)

// String returns a human-readable kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Pair is a single key/value entry of a map Value. Map entries keep the
// order the decoder produced; sales-rank flattening depends on it.
type Pair struct {
	Key   string
	Value Value
}

// Value is a single cell of a table: a scalar, a list, or an ordered map.
// The zero Value is null.
type Value struct {
	kind  Kind
	str   string
	num   int64
	fnum  float64
	truth bool
	list  []Value
	pairs []Pair
}

// Null returns the null Value.
func Null() Value { return Value{} }

// String wraps a string scalar.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer scalar.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Float wraps a float scalar.
func Float(f float64) Value { return Value{kind: KindFloat, fnum: f} }

// Bool wraps a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindBool, truth: b} }

// List wraps a list of values.
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Map wraps an ordered sequence of key/value pairs.
func Map(pairs ...Pair) Value { return Value{kind: KindMap, pairs: pairs} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload. Only meaningful for KindString.
func (v Value) Str() string { return v.str }

// IntVal returns the integer payload. Only meaningful for KindInt.
func (v Value) IntVal() int64 { return v.num }

// FloatVal returns the float payload. Only meaningful for KindFloat.
func (v Value) FloatVal() float64 { return v.fnum }

// BoolVal returns the boolean payload. Only meaningful for KindBool.
func (v Value) BoolVal() bool { return v.truth }

// Items returns the elements of a list value.
func (v Value) Items() []Value { return v.list }

// Pairs returns the entries of a map value in literal order.
func (v Value) Pairs() []Pair { return v.pairs }

// Get looks up a key in a map value.
func (v Value) Get(key string) (Value, bool) {
	for _, p := range v.pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Null(), false
}

// Format renders the value the way it should appear in warehouse output.
// Nulls render as the empty string.
func (v Value) Format() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.fnum, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.truth)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.Format()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.pairs))
		for i, p := range v.pairs {
			parts[i] = p.Key + ": " + p.Value.Format()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return ""
	}
}

// Equal reports deep equality between two values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindFloat:
		return v.fnum == other.fnum
	case KindBool:
		return v.truth == other.truth
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.pairs) != len(other.pairs) {
			return false
		}
		for i := range v.pairs {
			if v.pairs[i].Key != other.pairs[i].Key {
				return false
			}
			if !v.pairs[i].Value.Equal(other.pairs[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Key produces a kind-tagged comparable representation for duplicate
// detection. Values of distinct kinds never share a key even when their
// Format output matches, so Int(1) and String("1") stay apart.
func (v Value) Key() string {
	return fmt.Sprintf("%d\x00%s", v.kind, v.Format())
}

// FromAny converts a dynamically typed value (JSON decoding, BSON documents)
// into a Value. Unknown types fall back to their string form.
func FromAny(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return Float(float64(t))
	case float64:
		if t == float64(int64(t)) {
			return Int(int64(t))
		}
		return Float(t)
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return List(items...)
	case map[string]interface{}:
		// Go map order is random; sort keys so map-sourced values are stable.
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, 0, len(t))
		for _, k := range keys {
			pairs = append(pairs, Pair{Key: k, Value: FromAny(t[k])})
		}
		return Map(pairs...)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

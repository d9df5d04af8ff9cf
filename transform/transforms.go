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

package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aaronlmathis/reviewmart/core"
)

// Package transform provides the field normalizers of the pipeline: pure
// Table -> Table functions that repair the awkward raw fields (review
// dates, helpfulness pairs, composite review ids) and flatten the nested
// metadata fields into long tables. None of them mutate their input.

// ParseReviewDate converts a raw "Month D, YYYY" review date into the
// warehouse's numeric YYYYMMDD-style key. The month token is used verbatim
// after zero-padding - it is never mapped through a month-name table, so
// the result is only a true calendar ordinal when the feed already uses
// numeric months. Downstream sorts on it regardless; keep the behavior.
func ParseReviewDate(dateString string) (int64, error) {
	commaParts := strings.SplitN(dateString, ",", 2)
	if len(commaParts) != 2 {
		return 0, fmt.Errorf("%w: review date %q has no comma", core.ErrMalformedField, dateString)
	}
	year := strings.TrimSpace(commaParts[1])
	dayParts := strings.Fields(strings.TrimSpace(commaParts[0]))
	if len(dayParts) != 2 {
		return 0, fmt.Errorf("%w: review date %q has no month/day split", core.ErrMalformedField, dateString)
	}
	month := zfill(dayParts[0], 2)
	day := zfill(dayParts[1], 2)

	parsed, err := strconv.ParseInt(year+month+day, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: review date %q is not numeric after assembly", core.ErrMalformedField, dateString)
	}
	return parsed, nil
}

// ExtractHelpfulness pulls the yes/no counts out of a decoded helpfulness
// pair. Anything but a 2-element list of numbers is malformed.
func ExtractHelpfulness(v core.Value) (yes int64, no int64, err error) {
	if v.Kind() != core.KindList {
		return 0, 0, fmt.Errorf("%w: helpfulness is %s, want a 2-element list", core.ErrMalformedField, v.Kind())
	}
	items := v.Items()
	if len(items) != 2 {
		return 0, 0, fmt.Errorf("%w: helpfulness has %d elements, want 2", core.ErrMalformedField, len(items))
	}
	yes, err = helpfulnessCount(items[0])
	if err != nil {
		return 0, 0, err
	}
	no, err = helpfulnessCount(items[1])
	if err != nil {
		return 0, 0, err
	}
	return yes, no, nil
}

func helpfulnessCount(v core.Value) (int64, error) {
	switch v.Kind() {
	case core.KindInt:
		return v.IntVal(), nil
	case core.KindFloat:
		return int64(v.FloatVal()), nil
	default:
		return 0, fmt.Errorf("%w: helpfulness count is %s, want a number", core.ErrMalformedField, v.Kind())
	}
}

// DateString renders a parsed date integer as "YYYY-MM-DD" by slicing its
// decimal digits, with Python's forgiving slice semantics for short inputs.
func DateString(dateAsInt int64) string {
	digits := strconv.FormatInt(dateAsInt, 10)
	return slice(digits, 0, 4) + "-" + slice(digits, 4, 6) + "-" + slice(digits, 6, 8)
}

// slice mimics s[a:b] in Python: out-of-range bounds clamp, never panic.
func slice(s string, a, b int) string {
	if a > len(s) {
		a = len(s)
	}
	if b > len(s) {
		b = len(s)
	}
	return s[a:b]
}

// ProcessReviewsRawColumns fixes the helpfulness, reviewTime and review_id
// columns on the raw reviews table, returning a widened copy with
// review_date_parsed_as_int, count_review_helpful_yes,
// count_review_helpful_no and review_id appended.
//
// Null source fields yield null outputs and are left for the null policies
// to drop or fill; malformed non-null fields abort the record set. There is
// no per-row error isolation here: one bad row fails the whole batch.
func ProcessReviewsRawColumns(reviews *core.Table) (*core.Table, error) {
	n := reviews.Len()
	dates := make([]core.Value, n)
	helpfulYes := make([]core.Value, n)
	helpfulNo := make([]core.Value, n)
	reviewIDs := make([]core.Value, n)

	for i := 0; i < n; i++ {
		dateVal := reviews.Value(i, "reviewTime")
		switch dateVal.Kind() {
		case core.KindNull:
			dates[i] = core.Null()
		case core.KindString:
			parsed, err := ParseReviewDate(dateVal.Str())
			if err != nil {
				return nil, err
			}
			dates[i] = core.Int(parsed)
		default:
			return nil, fmt.Errorf("%w: reviewTime is %s, want a string", core.ErrMalformedField, dateVal.Kind())
		}

		helpfulVal := reviews.Value(i, "helpful")
		if helpfulVal.IsNull() {
			helpfulYes[i] = core.Null()
			helpfulNo[i] = core.Null()
		} else {
			yes, no, err := ExtractHelpfulness(helpfulVal)
			if err != nil {
				return nil, err
			}
			helpfulYes[i] = core.Int(yes)
			helpfulNo[i] = core.Int(no)
		}

		item := reviews.Value(i, "asin")
		reviewer := reviews.Value(i, "reviewerID")
		if item.Kind() == core.KindString && reviewer.Kind() == core.KindString {
			reviewIDs[i] = core.String(item.Str() + reviewer.Str())
		} else {
			reviewIDs[i] = core.Null()
		}
	}

	out, err := reviews.WithColumn("review_date_parsed_as_int", dates)
	if err != nil {
		return nil, err
	}
	if out, err = out.WithColumn("count_review_helpful_yes", helpfulYes); err != nil {
		return nil, err
	}
	if out, err = out.WithColumn("count_review_helpful_no", helpfulNo); err != nil {
		return nil, err
	}
	if out, err = out.WithColumn("review_id", reviewIDs); err != nil {
		return nil, err
	}
	return out, nil
}

// AddDateStringColumn appends a date_string column derived from the named
// date-integer column.
func AddDateStringColumn(table *core.Table, intColumn string) (*core.Table, error) {
	n := table.Len()
	strs := make([]core.Value, n)
	for i := 0; i < n; i++ {
		v := table.Value(i, intColumn)
		if v.Kind() != core.KindInt {
			strs[i] = core.Null()
			continue
		}
		strs[i] = core.String(DateString(v.IntVal()))
	}
	return table.WithColumn("date_string", strs)
}

// AddConstantColumn appends a column holding the same value on every row,
// e.g. the assumed "USD" currency on products.
func AddConstantColumn(table *core.Table, name string, value core.Value) (*core.Table, error) {
	if table.Len() == 0 {
		return table.WithColumn(name, nil)
	}
	return table.WithColumn(name, []core.Value{value})
}

// zfill left-pads with zeros to the given width, like Python's str.zfill.
func zfill(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

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

// reviews.go - splits the raw reviews dataset into the reviews star schema
package reshape

import (
	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
	"github.com/aaronlmathis/reviewmart/transform"
)

// Fact-table projection in final column order (pre-rename names).
var reviewsFactColumns = []string{
	"review_id",
	"reviewerID",
	"asin",
	"reviewText",
	"summary",
	"overall",
	"count_review_helpful_yes",
	"count_review_helpful_no",
	"unixReviewTime",
	"review_date_parsed_as_int",
}

// Reviews transforms a validated raw reviews table into four clean tables:
// the fact table, the reviewers dimension, the reviewer display names, and
// the date dimension. Pure over the registry: no I/O happens here.
func Reviews(raw *core.Table, registry *schema.Registry) (map[string]*core.Table, error) {
	augmented, err := transform.ProcessReviewsRawColumns(raw)
	if err != nil {
		return nil, err
	}

	fact, err := augmented.Project("reviews_fact_table", reviewsFactColumns...)
	if err != nil {
		return nil, err
	}
	reviewers, err := augmented.Project("reviewers", "reviewerID")
	if err != nil {
		return nil, err
	}
	userNames, err := augmented.Project("reviewer_user_names", "reviewerID", "reviewerName")
	if err != nil {
		return nil, err
	}
	dates, err := augmented.Project("date_dimension", "review_date_parsed_as_int")
	if err != nil {
		return nil, err
	}

	// The dimensions carry one row per entity; the PK checks later verify
	// that deduplication on the full row was enough (user id to user name
	// is one-to-one in this feed).
	reviewers = reviewers.Deduplicate()
	userNames = userNames.Deduplicate()
	dates = dates.Deduplicate()

	result := make(map[string]*core.Table, 4)
	if result["reviews_fact_table"], err = finalize(fact, registry); err != nil {
		return nil, err
	}
	if result["reviewers"], err = finalize(reviewers, registry); err != nil {
		return nil, err
	}
	if result["reviewer_user_names"], err = finalize(userNames, registry); err != nil {
		return nil, err
	}
	// date_string is derived from the renamed date_as_int column, so it is
	// added between rename and null handling.
	result["date_dimension"], err = finalize(dates, registry, func(t *core.Table) (*core.Table, error) {
		return transform.AddDateStringColumn(t, "date_as_int")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

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

// flatten.go - wide-to-long flattening of the nested metadata fields
package transform

import (
	"fmt"

	"github.com/aaronlmathis/reviewmart/core"
)

const (
	unrankedCategory = "Unranked"
	unrankedValue    = int64(-1)
)

// FlattenSalesRanks turns the per-item sales-rank dict into one row per
// item with a category and a numeric rank. Items without a rank (null,
// empty dict, or the {'Unranked'} sentinel the feed sometimes carries) get
// ("Unranked", -1). When a dict holds several rankings only the first pair,
// in the dict's literal order, is used.
func FlattenSalesRanks(metadata *core.Table) (*core.Table, error) {
	out := core.NewTable("product_sales_ranking", []string{"item_id", "category_ranked", "ranking"})
	for i := 0; i < metadata.Len(); i++ {
		item := metadata.Value(i, "asin")
		rank := metadata.Value(i, "salesrank")

		category := core.String(unrankedCategory)
		ranking := core.Int(unrankedValue)
		switch rank.Kind() {
		case core.KindNull:
			// keep defaults
		case core.KindMap:
			if pairs := rank.Pairs(); len(pairs) > 0 {
				category = core.String(pairs[0].Key)
				switch pv := pairs[0].Value; pv.Kind() {
				case core.KindInt:
					ranking = core.Int(pv.IntVal())
				case core.KindFloat:
					ranking = core.Int(int64(pv.FloatVal()))
				case core.KindNull:
					// sentinel form {'Unranked'}: category only, no rank
				default:
					return nil, fmt.Errorf("%w: sales rank for item %s is %s, want a number",
						core.ErrMalformedField, item.Format(), pv.Kind())
				}
			}
		default:
			return nil, fmt.Errorf("%w: sales rank for item %s is %s, want a dict",
				core.ErrMalformedField, item.Format(), rank.Kind())
		}

		out.AppendRow(core.Record{
			"item_id":         item,
			"category_ranked": category,
			"ranking":         ranking,
		})
	}
	return out, nil
}

// FlattenCategories explodes the nested category paths into a long table,
// one row per (item, category) pair. Items with no categories contribute
// zero rows.
func FlattenCategories(metadata *core.Table) (*core.Table, error) {
	out := core.NewTable("product_categories", []string{"item_id", "category"})
	for i := 0; i < metadata.Len(); i++ {
		item := metadata.Value(i, "asin")
		cats := metadata.Value(i, "categories")
		if cats.IsNull() {
			continue
		}
		if cats.Kind() != core.KindList {
			return nil, fmt.Errorf("%w: categories for item %s is %s, want a list of lists",
				core.ErrMalformedField, item.Format(), cats.Kind())
		}
		for _, sub := range cats.Items() {
			if sub.Kind() != core.KindList {
				return nil, fmt.Errorf("%w: categories for item %s holds a %s, want nested lists",
					core.ErrMalformedField, item.Format(), sub.Kind())
			}
			for _, category := range sub.Items() {
				out.AppendRow(core.Record{
					"item_id":  item,
					"category": category,
				})
			}
		}
	}
	return out, nil
}

// FlattenRelatedItems splits the related-items dict into two long tables:
// bought-together and also-viewed, one row per (item, related item) pair.
// An item lacking a key contributes zero rows to that table. This is the
// one two-output normalizer: run it once and route each table separately.
func FlattenRelatedItems(metadata *core.Table) (bought *core.Table, viewed *core.Table, err error) {
	bought = core.NewTable("product_bought_together", []string{"item_id", "related_item_id"})
	viewed = core.NewTable("product_also_viewed", []string{"item_id", "related_item_id"})

	for i := 0; i < metadata.Len(); i++ {
		item := metadata.Value(i, "asin")
		related := metadata.Value(i, "related")
		if related.IsNull() {
			continue
		}
		if related.Kind() != core.KindMap {
			return nil, nil, fmt.Errorf("%w: related items for item %s is %s, want a dict",
				core.ErrMalformedField, item.Format(), related.Kind())
		}
		if err := appendRelated(bought, item, related, "also_bought"); err != nil {
			return nil, nil, err
		}
		if err := appendRelated(viewed, item, related, "also_viewed"); err != nil {
			return nil, nil, err
		}
	}
	return bought, viewed, nil
}

func appendRelated(out *core.Table, item, related core.Value, key string) error {
	list, ok := related.Get(key)
	if !ok || list.IsNull() {
		return nil
	}
	if list.Kind() != core.KindList {
		return fmt.Errorf("%w: %s for item %s is %s, want a list",
			core.ErrMalformedField, key, item.Format(), list.Kind())
	}
	for _, rel := range list.Items() {
		if rel.Kind() == core.KindList || rel.Kind() == core.KindMap {
			return fmt.Errorf("%w: %s for item %s holds nested structures",
				core.ErrMalformedField, key, item.Format())
		}
		out.AppendRow(core.Record{
			"item_id":         item,
			"related_item_id": rel,
		})
	}
	return nil
}

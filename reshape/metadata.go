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

// metadata.go - splits the raw product metadata into the product hub and satellites
package reshape

import (
	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/schema"
	"github.com/aaronlmathis/reviewmart/transform"
)

// Metadata transforms a validated raw metadata table into six clean tables:
// the products hub, product images, and the flattened sales-rank, category
// and related-item satellites. Pure over the registry: no I/O happens here.
func Metadata(raw *core.Table, registry *schema.Registry) (map[string]*core.Table, error) {
	products, err := raw.Project("products", "asin", "title", "description", "price", "brand")
	if err != nil {
		return nil, err
	}
	images, err := raw.Project("product_images", "asin", "imUrl")
	if err != nil {
		return nil, err
	}
	salesSrc, err := raw.Project("product_sales_ranking", "asin", "salesrank")
	if err != nil {
		return nil, err
	}
	categorySrc, err := raw.Project("product_categories", "asin", "categories")
	if err != nil {
		return nil, err
	}
	relatedSrc, err := raw.Project("product_related", "asin", "related")
	if err != nil {
		return nil, err
	}

	// All prices in the feed are dollars; recorded explicitly so a second
	// currency can show up without a schema change.
	if products, err = transform.AddConstantColumn(products, "currency", core.String("USD")); err != nil {
		return nil, err
	}

	salesRanking, err := transform.FlattenSalesRanks(salesSrc)
	if err != nil {
		return nil, err
	}
	categories, err := transform.FlattenCategories(categorySrc)
	if err != nil {
		return nil, err
	}
	boughtTogether, alsoViewed, err := transform.FlattenRelatedItems(relatedSrc)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*core.Table, 6)
	for _, table := range []*core.Table{products, images, salesRanking, categories, boughtTogether, alsoViewed} {
		clean, err := finalize(table, registry)
		if err != nil {
			return nil, err
		}
		result[clean.Name()] = clean
	}
	return result, nil
}

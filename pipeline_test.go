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

package reviewmart

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/extract"
	"github.com/aaronlmathis/reviewmart/load"
	"github.com/aaronlmathis/reviewmart/schema"
)

const rawReviewsCSV = `reviewerID,asin,reviewerName,helpful,reviewText,overall,summary,unixReviewTime,reviewTime
U1,A1,Alice,"[4, 10]",Great coffee,5.0,Nice,937519200,"9 17, 1999"
U2,A1,Bob,"[0, 1]",Too bitter,2.0,Meh,938800800,"10 2, 1999"
`

const rawMetadataCSV = `asin,title,description,price,imUrl,brand,salesrank,categories,related
A1,Coffee,Dark roast beans,9.99,http://img/a1.jpg,Acme,"{'Grocery': 120}","[['Grocery', 'Coffee']]","{'also_bought': ['B1'], 'also_viewed': ['V1']}"
A2,Grinder,,24.5,,,"{'Unranked'}",,
`

func writeFixture(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func newLocalPipeline(t *testing.T, csvPath, outDir string) *Pipeline {
	t.Helper()
	registry, err := schema.Load()
	require.NoError(t, err)
	return NewPipeline(registry,
		extract.Config{Target: "local", Path: csvPath},
		load.Config{Target: "local", Dir: outDir},
	)
}

func TestPipeline_RunReviewsEndToEnd(t *testing.T) {
	outDir := t.TempDir()
	p := newLocalPipeline(t, writeFixture(t, "reviews.csv", rawReviewsCSV), outDir)

	require.NoError(t, p.Run(context.Background(), DatasetReviews, extract.Window{}))

	for _, name := range []string{"reviews_fact_table", "reviewers", "reviewer_user_names", "date_dimension"} {
		_, err := os.Stat(filepath.Join(outDir, name+".csv"))
		assert.NoError(t, err, "missing %s", name)
	}

	fact, err := os.ReadFile(filepath.Join(outDir, "reviews_fact_table.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(fact), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "review_id,reviewer_id,item_id,review_text,review_summary,"+
		"overall_score,count_review_helpful_yes,count_review_helpful_no,"+
		"review_time_unix,review_date_as_int", lines[0])
	assert.Equal(t, "A1U1,U1,A1,Great coffee,Nice,5,4,10,937519200,19990917", lines[1])

	dates, err := os.ReadFile(filepath.Join(outDir, "date_dimension.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(dates), "19990917,1999-09-17")
	assert.Contains(t, string(dates), "19991002,1999-10-02")
}

func TestPipeline_RunMetadataEndToEnd(t *testing.T) {
	outDir := t.TempDir()
	p := newLocalPipeline(t, writeFixture(t, "metadata.csv", rawMetadataCSV), outDir)

	require.NoError(t, p.Run(context.Background(), DatasetMetadata, extract.Window{}))

	for _, name := range []string{
		"products", "product_images", "product_sales_ranking",
		"product_categories", "product_bought_together", "product_also_viewed",
	} {
		_, err := os.Stat(filepath.Join(outDir, name+".csv"))
		assert.NoError(t, err, "missing %s", name)
	}

	products, err := os.ReadFile(filepath.Join(outDir, "products.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(products), "A1,Coffee,Dark roast beans,9.99,Acme,USD")
	// Missing description and brand are filled, not dropped.
	assert.Contains(t, string(products), "A2,Grinder,UNKNOWN,24.5,UNKNOWN,USD")

	ranks, err := os.ReadFile(filepath.Join(outDir, "product_sales_ranking.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(ranks), "A1,Grocery,120")
	assert.Contains(t, string(ranks), "A2,Unranked,-1")
}

func TestPipeline_RunReviewsNumericLookingIDs(t *testing.T) {
	// ISBN-style item ids look numeric; the run must still compose the fact
	// key and keep the id's leading zero end to end.
	csv := `reviewerID,asin,reviewerName,helpful,reviewText,overall,summary,unixReviewTime,reviewTime
U1,0439023483,Alice,"[4, 10]",Great read,5.0,Nice,937519200,"9 17, 1999"
12345,0439023483,Bob,"[0, 1]",Too long,2.0,Meh,938800800,"10 2, 1999"
`
	outDir := t.TempDir()
	p := newLocalPipeline(t, writeFixture(t, "reviews.csv", csv), outDir)

	require.NoError(t, p.Run(context.Background(), DatasetReviews, extract.Window{}))

	fact, err := os.ReadFile(filepath.Join(outDir, "reviews_fact_table.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(fact), "0439023483U1,U1,0439023483,")
	assert.Contains(t, string(fact), "043902348312345,12345,0439023483,")
	assert.NotContains(t, string(fact), "439023483U1")
}

func TestPipeline_RunMetadataKeepsLeadingZeros(t *testing.T) {
	csv := `asin,title,description,price,imUrl,brand,salesrank,categories,related
0439023483,Hunger Games,A novel,7.99,http://img/hg.jpg,Scholastic,"{'Books': 12}","[['Books']]","{'also_bought': ['0439023490']}"
`
	outDir := t.TempDir()
	p := newLocalPipeline(t, writeFixture(t, "metadata.csv", csv), outDir)

	require.NoError(t, p.Run(context.Background(), DatasetMetadata, extract.Window{}))

	products, err := os.ReadFile(filepath.Join(outDir, "products.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(products), "0439023483,Hunger Games,")

	bought, err := os.ReadFile(filepath.Join(outDir, "product_bought_together.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(bought), "0439023483,0439023490")
}

func TestPipeline_RunRejectsBadRawSchema(t *testing.T) {
	// Swapped first two columns must fail validation before any reshaping.
	bad := strings.Replace(rawReviewsCSV, "reviewerID,asin", "asin,reviewerID", 1)
	p := newLocalPipeline(t, writeFixture(t, "reviews.csv", bad), t.TempDir())

	err := p.Run(context.Background(), DatasetReviews, extract.Window{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSchemaMismatch)
}

func TestPipeline_RunUnknownDataset(t *testing.T) {
	p := newLocalPipeline(t, writeFixture(t, "reviews.csv", rawReviewsCSV), t.TempDir())

	err := p.Run(context.Background(), "users", extract.Window{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownDataset)
}

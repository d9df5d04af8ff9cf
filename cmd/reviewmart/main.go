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

// Command reviewmart runs one batch pipeline task. The scheduler invokes
// it hourly with a task name and, for windowed tasks, the window bounds:
//
//	reviewmart -task process_raw_reviews_data_with_timestamps \
//	    -start_timestamp "2025-01-01 10:00:00.000000" \
//	    -end_timestamp "2025-01-01 11:00:00.000000" \
//	    -source api -warehouse s3
//
// Credentials come from the environment: REVIEWMART_API_TOKEN for the API
// source, REVIEWMART_POSTGRES_DSN for the postgres warehouse, and the
// usual AWS variables for S3.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/aaronlmathis/reviewmart"
	"github.com/aaronlmathis/reviewmart/extract"
	"github.com/aaronlmathis/reviewmart/load"
	"github.com/aaronlmathis/reviewmart/schema"
)

func main() {
	var (
		task           = flag.String("task", "", "task name to run")
		startTimestamp = flag.String("start_timestamp", "", "window start, YYYY-MM-DD HH:MM:SS.ffffff")
		endTimestamp   = flag.String("end_timestamp", "", "window end, YYYY-MM-DD HH:MM:SS.ffffff")
		source         = flag.String("source", "local", "retrieval target: api, local, s3 or mongo")
		sourcePath     = flag.String("source_path", "", "raw CSV path for -source local")
		apiURL         = flag.String("api_url", "", "endpoint URL for -source api")
		s3Bucket       = flag.String("s3_bucket", "", "bucket for -source s3 and -warehouse s3")
		s3Prefix       = flag.String("s3_prefix", "", "key prefix for -source s3")
		s3Region       = flag.String("s3_region", "", "AWS region")
		mongoURI       = flag.String("mongo_uri", "mongodb://localhost:27017", "connection URI for -source mongo")
		mongoDB        = flag.String("mongo_db", "", "database for -source mongo")
		mongoColl      = flag.String("mongo_collection", "", "collection for -source mongo")
		warehouse      = flag.String("warehouse", "local", "warehouse target: s3, local, postgres or parquet")
		outputDir      = flag.String("output_dir", "output", "directory for -warehouse local and parquet")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "reviewmart: ", log.LstdFlags)

	if *task == "" {
		logger.Fatalf("-task is required, valid tasks: %v", reviewmart.CommandNames())
	}

	cmd, err := reviewmart.LookupCommand(*task)
	if err != nil {
		logger.Fatal(err)
	}

	registry, err := schema.Load()
	if err != nil {
		logger.Fatal(err)
	}

	extractCfg := extract.Config{
		Target:  *source,
		Dataset: cmd.Dataset,
		Path:    *sourcePath,
		API: extract.APIConfig{
			URL:   *apiURL,
			Token: os.Getenv("REVIEWMART_API_TOKEN"),
		},
		S3: extract.S3Config{
			Bucket: *s3Bucket,
			Prefix: *s3Prefix,
			Region: *s3Region,
		},
		Mongo: extract.MongoConfig{
			URI:        *mongoURI,
			Database:   *mongoDB,
			Collection: *mongoColl,
		},
	}

	loadCfg := load.Config{
		Target:      *warehouse,
		Dir:         *outputDir,
		PostgresDSN: os.Getenv("REVIEWMART_POSTGRES_DSN"),
		S3: load.S3Config{
			Bucket: *s3Bucket,
			Region: *s3Region,
		},
	}

	pipeline := reviewmart.NewPipeline(registry, extractCfg, loadCfg, reviewmart.WithLogger(logger))

	if err := cmd.Execute(context.Background(), pipeline, *startTimestamp, *endTimestamp); err != nil {
		logger.Fatal(err)
	}
}

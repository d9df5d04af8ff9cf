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

// Package reviewmart wires the batch pipeline together: a raw review or
// product-metadata extract is materialized, checked against the declared
// raw schema, reshaped into the star-schema tables and persisted to the
// configured warehouse. Any failure aborts the run; there is no partial
// output.
package reviewmart

import (
	"context"
	"fmt"
	"log"

	"github.com/aaronlmathis/reviewmart/core"
	"github.com/aaronlmathis/reviewmart/extract"
	"github.com/aaronlmathis/reviewmart/load"
	"github.com/aaronlmathis/reviewmart/reshape"
	"github.com/aaronlmathis/reviewmart/schema"
	"github.com/aaronlmathis/reviewmart/validators"
)

// Datasets the reshaper knows how to split.
const (
	DatasetReviews  = "reviews"
	DatasetMetadata = "metadata"
)

// Pipeline runs one extract-validate-reshape-load cycle per invocation.
type Pipeline struct {
	registry *schema.Registry
	extract  extract.Config
	load     load.Config
	logger   *log.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the progress logger.
func WithLogger(logger *log.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a pipeline over the given schema registry and
// retrieval/warehouse configuration.
func NewPipeline(registry *schema.Registry, extractCfg extract.Config, loadCfg load.Config, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		registry: registry,
		extract:  extractCfg,
		load:     loadCfg,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one dataset for the given ingestion window.
func (p *Pipeline) Run(ctx context.Context, dataset string, window extract.Window) error {
	rawColumns, err := p.registry.RawColumns(dataset)
	if err != nil {
		return err
	}

	p.logger.Printf("pipeline: extracting dataset %q from target %q", dataset, p.extract.Target)
	src, err := extract.NewSource(ctx, p.extract, window)
	if err != nil {
		return err
	}
	defer src.Close()

	raw, err := extract.Materialize(ctx, src, dataset, rawColumns)
	if err != nil {
		return fmt.Errorf("extract %s: %w", dataset, err)
	}
	p.logger.Printf("pipeline: extracted %d raw rows", raw.Len())

	if err := validators.ValidateRawData(raw, p.registry, dataset); err != nil {
		return err
	}

	tables, err := p.reshapeDataset(raw, dataset)
	if err != nil {
		return err
	}
	p.logger.Printf("pipeline: reshaped %d output tables", len(tables))

	warehouse, err := load.NewWarehouse(ctx, p.load, p.registry)
	if err != nil {
		return err
	}
	defer warehouse.Close()

	if err := warehouse.Persist(ctx, tables); err != nil {
		return err
	}
	p.logger.Printf("pipeline: persisted dataset %q to target %q", dataset, p.load.Target)
	return nil
}

func (p *Pipeline) reshapeDataset(raw *core.Table, dataset string) (map[string]*core.Table, error) {
	switch dataset {
	case DatasetReviews:
		return reshape.Reviews(raw, p.registry)
	case DatasetMetadata:
		return reshape.Metadata(raw, p.registry)
	default:
		return nil, fmt.Errorf("%w: no reshaper for dataset %q", core.ErrUnknownDataset, dataset)
	}
}

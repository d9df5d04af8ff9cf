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
	"fmt"
	"sort"

	"github.com/aaronlmathis/reviewmart/extract"
)

// Command is one schedulable task: a dataset plus whether the task expects
// an ingestion window from the scheduler.
type Command struct {
	Name     string
	Dataset  string
	Windowed bool
}

// The task names the scheduler invokes. An explicit table instead of
// deriving handlers from the task string, so an unknown name fails at
// startup with the valid set in the error.
var commands = map[string]Command{
	"process_raw_reviews_data": {
		Name:    "process_raw_reviews_data",
		Dataset: DatasetReviews,
	},
	"process_raw_reviews_data_with_timestamps": {
		Name:     "process_raw_reviews_data_with_timestamps",
		Dataset:  DatasetReviews,
		Windowed: true,
	},
	"process_raw_metadata": {
		Name:    "process_raw_metadata",
		Dataset: DatasetMetadata,
	},
	"process_raw_metadata_with_timestamps": {
		Name:     "process_raw_metadata_with_timestamps",
		Dataset:  DatasetMetadata,
		Windowed: true,
	},
}

// LookupCommand resolves a task name.
func LookupCommand(name string) (Command, error) {
	cmd, ok := commands[name]
	if !ok {
		return Command{}, fmt.Errorf("unknown task %q, valid tasks: %v", name, CommandNames())
	}
	return cmd, nil
}

// CommandNames returns all task names, sorted.
func CommandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute parses the window per the command's contract and runs the
// pipeline. Windowed tasks require both timestamps; unwindowed tasks
// reject them.
func (c Command) Execute(ctx context.Context, p *Pipeline, startTimestamp, endTimestamp string) error {
	if c.Windowed {
		if startTimestamp == "" || endTimestamp == "" {
			return fmt.Errorf("task %q requires -start_timestamp and -end_timestamp", c.Name)
		}
	} else if startTimestamp != "" || endTimestamp != "" {
		return fmt.Errorf("task %q does not take timestamps", c.Name)
	}

	window, err := extract.ParseWindow(startTimestamp, endTimestamp)
	if err != nil {
		return err
	}
	return p.Run(ctx, c.Dataset, window)
}

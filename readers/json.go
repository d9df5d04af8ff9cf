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

package readers

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/aaronlmathis/reviewmart/core"
)

// JSONReader implements core.DataSource for line-delimited JSON feeds.
type JSONReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
}

// NewJSONReader creates a new reader for line-delimited JSON.
func NewJSONReader(r io.ReadCloser) *JSONReader {
	return &JSONReader{
		scanner: bufio.NewScanner(r),
		closer:  r,
	}
}

// Read implements the core.DataSource interface.
func (j *JSONReader) Read(ctx context.Context) (core.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if !j.scanner.Scan() {
		if err := j.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(j.scanner.Bytes(), &raw); err != nil {
		return nil, err
	}

	record := make(core.Record, len(raw))
	for k, v := range raw {
		record[k] = core.FromAny(v)
	}
	return record, nil
}

// Close implements the core.DataSource interface.
func (j *JSONReader) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aaronlmathis/reviewmart/core"
)

// APIReaderError represents errors that occur during API read operations.
type APIReaderError struct {
	Op  string
	Err error
}

func (e *APIReaderError) Error() string {
	return fmt.Sprintf("api reader %s: %v", e.Op, e.Err)
}

func (e *APIReaderError) Unwrap() error {
	return e.Err
}

const defaultPageSize = 10000

// APIReader implements core.DataSource for the review service HTTP API.
// Pages through the endpoint with limit/offset parameters until a page
// comes back smaller than the page size, buffering one page at a time.
type APIReader struct {
	client   *http.Client
	baseURL  string
	token    string
	timezone string
	pageSize int
	query    url.Values

	offset    int
	page      []map[string]interface{}
	pageIndex int
	exhausted bool
}

// APIReaderOption configures an APIReader.
type APIReaderOption func(*APIReader)

// WithAPIClient sets a custom HTTP client.
func WithAPIClient(client *http.Client) APIReaderOption {
	return func(a *APIReader) {
		a.client = client
	}
}

// WithAPIPageSize overrides the pagination page size.
func WithAPIPageSize(size int) APIReaderOption {
	return func(a *APIReader) {
		if size > 0 {
			a.pageSize = size
		}
	}
}

// WithAPITimezone sets the timezone query parameter.
func WithAPITimezone(tz string) APIReaderOption {
	return func(a *APIReader) {
		a.timezone = tz
	}
}

// WithAPIWindow restricts the feed to records updated inside [start, end).
func WithAPIWindow(start, end time.Time) APIReaderOption {
	return func(a *APIReader) {
		a.query.Set("start_timestamp", start.Format("2006-01-02 15:04:05.999999"))
		a.query.Set("end_timestamp", end.Format("2006-01-02 15:04:05.999999"))
	}
}

// NewAPIReader creates a reader for the given endpoint URL, authenticating
// with the given bearer token.
func NewAPIReader(baseURL, token string, opts ...APIReaderOption) *APIReader {
	reader := &APIReader{
		client:   &http.Client{Timeout: 60 * time.Second},
		baseURL:  baseURL,
		token:    token,
		timezone: "Amsterdam",
		pageSize: defaultPageSize,
		query:    url.Values{},
	}

	for _, opt := range opts {
		opt(reader)
	}

	return reader
}

// envelope is the wire shape of an API page.
type envelope struct {
	Data []map[string]interface{} `json:"data"`
}

func (a *APIReader) fetchPage(ctx context.Context) error {
	query := url.Values{}
	for k, vs := range a.query {
		query[k] = vs
	}
	query.Set("timezone", a.timezone)
	query.Set("limit", strconv.Itoa(a.pageSize))
	query.Set("offset", strconv.Itoa(a.offset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return &APIReaderError{Op: "request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return &APIReaderError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIReaderError{Op: "fetch", Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)}
	}

	var page envelope
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return &APIReaderError{Op: "decode", Err: err}
	}

	a.page = page.Data
	a.pageIndex = 0
	a.offset += len(page.Data)
	if len(page.Data) < a.pageSize {
		a.exhausted = true
	}
	return nil
}

// Read implements the core.DataSource interface.
func (a *APIReader) Read(ctx context.Context) (core.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	for a.pageIndex >= len(a.page) {
		if a.exhausted {
			return nil, io.EOF
		}
		if err := a.fetchPage(ctx); err != nil {
			return nil, err
		}
	}

	raw := a.page[a.pageIndex]
	a.pageIndex++

	record := make(core.Record, len(raw))
	for k, v := range raw {
		record[k] = core.FromAny(v)
	}
	return record, nil
}

// Close implements the core.DataSource interface.
func (a *APIReader) Close() error {
	a.page = nil
	a.exhausted = true
	return nil
}

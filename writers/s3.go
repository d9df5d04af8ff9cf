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

package writers

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aaronlmathis/reviewmart/core"
)

// S3WriterError wraps S3-specific write errors with context.
type S3WriterError struct {
	Op  string
	Err error
}

func (e *S3WriterError) Error() string {
	return fmt.Sprintf("s3 writer %s: %v", e.Op, e.Err)
}

func (e *S3WriterError) Unwrap() error {
	return e.Err
}

// S3WriterStats holds S3 upload statistics.
type S3WriterStats struct {
	TablesWritten int64
	RowsWritten   int64
	BytesWritten  int64
	WriteDuration time.Duration
	LastWriteTime time.Time
	UploadedKeys  []string
}

// S3WriterOptions configures the S3 writer.
type S3WriterOptions struct {
	Bucket         string          // S3 bucket name
	Prefix         string          // Key prefix, default "uploads"
	Region         string          // AWS region
	Profile        string          // AWS profile to use
	Credentials    aws.Credentials // Explicit credentials
	EndpointURL    string          // Custom S3 endpoint
	ForcePathStyle bool            // Use path-style addressing
}

// WriterOptionS3 represents a configuration function for S3Writer.
type WriterOptionS3 func(*S3WriterOptions)

func WithS3WriterBucket(bucket string) WriterOptionS3 {
	return func(opts *S3WriterOptions) {
		opts.Bucket = bucket
	}
}

func WithS3WriterPrefix(prefix string) WriterOptionS3 {
	return func(opts *S3WriterOptions) {
		opts.Prefix = prefix
	}
}

func WithS3WriterRegion(region string) WriterOptionS3 {
	return func(opts *S3WriterOptions) {
		opts.Region = region
	}
}

func WithS3WriterProfile(profile string) WriterOptionS3 {
	return func(opts *S3WriterOptions) {
		opts.Profile = profile
	}
}

func WithS3WriterCredentials(creds aws.Credentials) WriterOptionS3 {
	return func(opts *S3WriterOptions) {
		opts.Credentials = creds
	}
}

func WithS3WriterEndpoint(endpoint string) WriterOptionS3 {
	return func(opts *S3WriterOptions) {
		opts.EndpointURL = endpoint
	}
}

func WithS3WriterPathStyle(pathStyle bool) WriterOptionS3 {
	return func(opts *S3WriterOptions) {
		opts.ForcePathStyle = pathStyle
	}
}

// S3Writer implements core.TableSink for Amazon S3. Each table is rendered
// as CSV and uploaded to <prefix>/<table>/<table>.csv, replacing whatever
// object was there before.
type S3Writer struct {
	client *s3.Client
	opts   S3WriterOptions
	stats  S3WriterStats
}

// NewS3Writer creates a new S3 writer with the specified options.
func NewS3Writer(ctx context.Context, options ...WriterOptionS3) (*S3Writer, error) {
	opts := S3WriterOptions{
		Prefix: "uploads",
	}
	for _, option := range options {
		option(&opts)
	}

	if opts.Bucket == "" {
		return nil, &S3WriterError{Op: "validate_options", Err: fmt.Errorf("bucket is required")}
	}

	cfg, err := newS3WriterConfig(ctx, opts)
	if err != nil {
		return nil, &S3WriterError{Op: "create_aws_config", Err: err}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	return &S3Writer{client: client, opts: opts}, nil
}

// WriteTable implements the core.TableSink interface.
func (w *S3Writer) WriteTable(ctx context.Context, table *core.Table) error {
	start := time.Now()

	var buf bytes.Buffer
	if err := EncodeTableCSV(&buf, table); err != nil {
		return &S3WriterError{Op: "encode", Err: err}
	}

	key := path.Join(w.opts.Prefix, table.Name(), table.Name()+".csv")
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return &S3WriterError{Op: "put_object", Err: err}
	}

	w.stats.TablesWritten++
	w.stats.RowsWritten += int64(table.Len())
	w.stats.BytesWritten += int64(buf.Len())
	w.stats.WriteDuration += time.Since(start)
	w.stats.LastWriteTime = time.Now()
	w.stats.UploadedKeys = append(w.stats.UploadedKeys, key)
	return nil
}

// Close implements the core.TableSink interface.
func (w *S3Writer) Close() error {
	return nil
}

// Stats returns upload statistics.
func (w *S3Writer) Stats() S3WriterStats {
	return w.stats
}

func newS3WriterConfig(ctx context.Context, opts S3WriterOptions) (aws.Config, error) {
	configOpts := []func(*config.LoadOptions) error{}

	if opts.Region != "" {
		configOpts = append(configOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, err
	}

	if opts.Credentials.AccessKeyID != "" {
		cfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				opts.Credentials.AccessKeyID,
				opts.Credentials.SecretAccessKey,
				opts.Credentials.SessionToken,
			),
		)
	}

	return cfg, nil
}

// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cardinalhq/recordkit/internal/split"
	"github.com/cardinalhq/recordkit/internal/telemetry"
)

// GCSInteropEndpoint is the S3-compatible endpoint of Google Cloud Storage.
const GCSInteropEndpoint = "https://storage.googleapis.com"

// S3Options configures an S3 client.
type S3Options struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	PathStyle bool   `mapstructure:"path_style"`
}

// S3 opens s3://bucket/key locations with GetObject.
type S3 struct {
	client *s3.Client
}

// NewS3 loads the default AWS configuration chain and applies opts.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})
	return &S3{client: client}, nil
}

// NewS3FromClient wraps an existing client.
func NewS3FromClient(client *s3.Client) *S3 {
	return &S3{client: client}
}

func (o *S3) Open(ctx context.Context, loc split.Location) (io.ReadCloser, error) {
	bucket, key := loc.Host(), loc.Key()
	ctx, span := telemetry.Tracer.Start(ctx, "source.s3Open",
		trace.WithAttributes(
			attribute.String("bucket", bucket),
			attribute.String("key", key),
		),
	)
	defer span.End()

	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get object failed")
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("object %s: %w", loc, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("get object %s: %w", loc, err)
	}
	return out.Body, nil
}

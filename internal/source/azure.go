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
	"fmt"
	"io"
	"io/fs"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cardinalhq/recordkit/internal/split"
	"github.com/cardinalhq/recordkit/internal/telemetry"
)

// AzureOptions configures an Azure Blob Storage client.
type AzureOptions struct {
	// Endpoint is the account blob endpoint, e.g.
	// https://<account>.blob.core.windows.net/
	Endpoint string `mapstructure:"endpoint"`
}

// Azure opens azblob://container/blob locations.
type Azure struct {
	client *azblob.Client
}

// NewAzure authenticates with the default Azure credential chain.
func NewAzure(opts AzureOptions) (*Azure, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("azure blob endpoint is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("loading Azure credentials: %w", err)
	}
	client, err := azblob.NewClient(opts.Endpoint, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &Azure{client: client}, nil
}

func (o *Azure) Open(ctx context.Context, loc split.Location) (io.ReadCloser, error) {
	container, blobName := loc.Host(), loc.Key()
	ctx, span := telemetry.Tracer.Start(ctx, "source.azureOpen",
		trace.WithAttributes(
			attribute.String("container", container),
			attribute.String("blob", blobName),
		),
	)
	defer span.End()

	resp, err := o.client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("blob %s: %w", loc, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("download blob %s: %w", loc, err)
	}
	return resp.Body, nil
}

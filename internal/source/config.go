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
)

// Config selects and configures the remote schemes. It is embedded in the
// application configuration under "source".
type Config struct {
	S3    S3Options    `mapstructure:"s3"`
	GS    S3Options    `mapstructure:"gs"`
	Azure AzureOptions `mapstructure:"azure"`
}

// NewMuxFromConfig registers file, s3 and gs openers, and azblob when an
// Azure endpoint is configured.
func NewMuxFromConfig(cfg Config) *Mux {
	m := NewMux()

	s3opts := cfg.S3
	m.Register("s3", Lazy(func(ctx context.Context) (Opener, error) {
		return NewS3(ctx, s3opts)
	}))

	gsopts := cfg.GS
	if gsopts.Endpoint == "" {
		gsopts.Endpoint = GCSInteropEndpoint
	}
	m.Register("gs", Lazy(func(ctx context.Context) (Opener, error) {
		return NewS3(ctx, gsopts)
	}))

	if cfg.Azure.Endpoint != "" {
		azopts := cfg.Azure
		m.Register("azblob", Lazy(func(context.Context) (Opener, error) {
			return NewAzure(azopts)
		}))
	}

	return m
}

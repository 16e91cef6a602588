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

// Package telemetry holds the OpenTelemetry instruments shared by readers and
// byte sources.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/cardinalhq/recordkit"

var (
	// Tracer is used for spans around remote byte fetches.
	Tracer trace.Tracer = otel.Tracer(instrumentationName)

	RecordsOut      otelmetric.Int64Counter
	DecodeFailures  otelmetric.Int64Counter
	SourceOpens     otelmetric.Int64Counter
	SourceOpenFails otelmetric.Int64Counter
	SourceBytes     otelmetric.Int64Counter
	Resets          otelmetric.Int64Counter
)

func init() {
	meter := otel.Meter(instrumentationName)

	var err error
	RecordsOut, err = meter.Int64Counter(
		"recordkit.reader.records.out",
		otelmetric.WithDescription("Number of records emitted by record readers"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create records.out counter: %w", err))
	}

	DecodeFailures, err = meter.Int64Counter(
		"recordkit.reader.decode.failures",
		otelmetric.WithDescription("Number of sources that failed to open or decode"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create decode.failures counter: %w", err))
	}

	Resets, err = meter.Int64Counter(
		"recordkit.reader.resets",
		otelmetric.WithDescription("Number of reader resets"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create resets counter: %w", err))
	}

	SourceOpens, err = meter.Int64Counter(
		"recordkit.source.open.count",
		otelmetric.WithDescription("Number of source locations opened"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create open.count counter: %w", err))
	}

	SourceOpenFails, err = meter.Int64Counter(
		"recordkit.source.open.errors",
		otelmetric.WithDescription("Number of source locations that could not be opened"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create open.errors counter: %w", err))
	}

	SourceBytes, err = meter.Int64Counter(
		"recordkit.source.open.bytes",
		otelmetric.WithDescription("Bytes read from opened source locations"),
		otelmetric.WithUnit("By"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create open.bytes counter: %w", err))
	}
}

// ReaderAttr tags a measurement with the reader kind.
func ReaderAttr(name string) otelmetric.MeasurementOption {
	return otelmetric.WithAttributes(attribute.String("reader", name))
}

// SchemeAttr tags a measurement with the location scheme.
func SchemeAttr(scheme string) otelmetric.MeasurementOption {
	return otelmetric.WithAttributes(attribute.String("scheme", scheme))
}

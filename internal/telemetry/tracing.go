// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry wires the process into an OTLP trace collector.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dotandev/granary/internal/logger"
)

// Init installs a tracer provider exporting to the given OTLP/HTTP endpoint
// and returns its shutdown function. With an empty endpoint tracing stays on
// the default no-op provider and shutdown does nothing.
func Init(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := sdkresource.NewSchemaless(
		attribute.String("service.name", "granary"),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logger.Logger.Info("tracing enabled", "endpoint", endpoint)
	return tp.Shutdown, nil
}

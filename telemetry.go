package cindex

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("cindex")
	meter  = otel.Meter("cindex")
)

var (
	parseLatency metric.Float64Histogram
	parseTotal   metric.Int64Counter
	parseCrashes metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		parseLatency, err = meter.Float64Histogram(
			"cindex_parse_duration_seconds",
			metric.WithDescription("Duration of translation unit parses"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseTotal, err = meter.Int64Counter(
			"cindex_parse_total",
			metric.WithDescription("Total number of parses and reparses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseCrashes, err = meter.Int64Counter(
			"cindex_parse_crashes_total",
			metric.WithDescription("Parses that crashed inside the front-end"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordParseMetrics(ctx context.Context, op string, duration time.Duration, code ErrorCode) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("result", code.String()),
	)
	parseLatency.Record(ctx, duration.Seconds(), attrs)
	parseTotal.Add(ctx, 1, attrs)
	if code == ErrorCrashed {
		parseCrashes.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}

func startParseSpan(ctx context.Context, name, path string, args []string, flags TranslationUnitFlags) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("cindex.file", path),
			attribute.StringSlice("cindex.args", args),
			attribute.Int64("cindex.flags", int64(flags)),
		),
	)
}

func endParseSpan(span trace.Span, code ErrorCode, err error, diagnostics int) {
	span.SetAttributes(
		attribute.String("cindex.result", code.String()),
		attribute.Int("cindex.diagnostics", diagnostics),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

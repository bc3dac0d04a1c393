package blacklist

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FetcherWithTelemetry implements Fetcher with all methods wrapped with open telemetry call,
// error and latency metrics
type FetcherWithTelemetry struct {
	base Fetcher
	name string

	calls      metric.Int64Counter
	errs       metric.Int64Counter
	timeMillis metric.Int64Histogram
}

// NewFetcherWithTelemetry returns the base Fetcher decorated with open telemetry metrics labeled
// with name
func NewFetcherWithTelemetry(base Fetcher, name string, meter metric.Meter) (f *FetcherWithTelemetry, err error) {
	f = &FetcherWithTelemetry{base: base, name: name}

	if f.calls, err = meter.Int64Counter("fetcher_calls", metric.WithDescription("Upstream calls by method")); err != nil {
		return nil, err
	}

	if f.errs, err = meter.Int64Counter("fetcher_errors", metric.WithDescription("Failed upstream calls by method and kind")); err != nil {
		return nil, err
	}

	if f.timeMillis, err = meter.Int64Histogram("fetcher_processing_time_millis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	return f, nil
}

// FetchBlacklist implements Fetcher
func (f *FetcherWithTelemetry) FetchBlacklist(ctx context.Context, req LookupRequest) (body []byte, err error) {
	defer f.record(ctx, "FetchBlacklist", time.Now(), &err)

	return f.base.FetchBlacklist(ctx, req)
}

// FetchProfile implements Fetcher
func (f *FetcherWithTelemetry) FetchProfile(ctx context.Context, targetID string) (p Profile, err error) {
	defer f.record(ctx, "FetchProfile", time.Now(), &err)

	return f.base.FetchProfile(ctx, targetID)
}

func (f *FetcherWithTelemetry) record(ctx context.Context, method string, since time.Time, err *error) {
	attrs := metric.WithAttributes(attribute.String("name", f.name), attribute.String("method", method))

	f.calls.Add(ctx, 1, attrs)
	f.timeMillis.Record(ctx, time.Since(since).Milliseconds(), attrs)

	if *err != nil {
		f.errs.Add(ctx, 1, metric.WithAttributes(attribute.String("name", f.name), attribute.String("method", method), attribute.String("kind", KindOf(*err).String())))
	}
}

package yunheiscot

import (
	"context"
	"time"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// chatDriverWithTelemetry implements chatDriver interface with all methods wrapped
// with open telemetry metrics
type chatDriverWithTelemetry struct {
	base  chatDriver
	attrs metric.MeasurementOption

	calls      metric.Int64Counter
	errs       metric.Int64Counter
	timeMillis metric.Int64Histogram
}

// newChatDriverWithTelemetry returns an instance of the chatDriver decorated with open telemetry timing and count metrics
func newChatDriverWithTelemetry(base chatDriver, name string, meter metric.Meter) (d *chatDriverWithTelemetry, err error) {
	d = &chatDriverWithTelemetry{base: base, attrs: metric.WithAttributes(attribute.String("name", name), attribute.String("method", "SendMessage"))}

	if d.calls, err = meter.Int64Counter("chatDriver_calls"); err != nil {
		return nil, err
	}

	if d.errs, err = meter.Int64Counter("chatDriver_errors"); err != nil {
		return nil, err
	}

	if d.timeMillis, err = meter.Int64Histogram("chatDriver_processing_time_millis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	return d, nil
}

// SendMessage implements chatDriver
func (d *chatDriverWithTelemetry) SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	since := time.Now()
	defer func() {
		ctx := context.Background()

		if err != nil {
			d.errs.Add(ctx, 1, d.attrs)
		}

		d.calls.Add(ctx, 1, d.attrs)
		d.timeMillis.Record(ctx, time.Since(since).Milliseconds(), d.attrs)
	}()

	return d.base.SendMessage(channelID, options...)
}

package yunheiscot

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	commandRoute = "command"
	hearRoute    = "hear"
)

// instrumenter holds data for core instrumentation
type instrumenter struct {
	appName string

	msgsSeen                   metric.Int64Counter
	msgsProcessed              metric.Int64Counter
	msgProcessingLatencyMillis metric.Int64Histogram
	answerCount                metric.Int64Counter
	deliveryFallbacks          metric.Int64Counter
}

// newInstrumenter creates a new core instrumenter
func newInstrumenter(appName string, meter metric.Meter) (ins *instrumenter, err error) {
	ins = &instrumenter{appName: appName}

	if ins.msgsSeen, err = meter.Int64Counter("msgSeen"); err != nil {
		return nil, err
	}

	if ins.msgsProcessed, err = meter.Int64Counter("msgProcessed"); err != nil {
		return nil, err
	}

	if ins.msgProcessingLatencyMillis, err = meter.Int64Histogram("msgProcessingLatencyMillis", metric.WithUnit("ms")); err != nil {
		return nil, err
	}

	if ins.answerCount, err = meter.Int64Counter("answerCount"); err != nil {
		return nil, err
	}

	if ins.deliveryFallbacks, err = meter.Int64Counter("deliveryFallbacks"); err != nil {
		return nil, err
	}

	return ins, nil
}

func (ins *instrumenter) recordSeen() {
	ins.msgsSeen.Add(context.Background(), 1, metric.WithAttributes(attribute.String("name", ins.appName)))
}

func (ins *instrumenter) recordProcessed(route string, d time.Duration) {
	attrs := metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("route", route))

	ins.msgsProcessed.Add(context.Background(), 1, attrs)
	ins.msgProcessingLatencyMillis.Record(context.Background(), d.Milliseconds(), attrs)
}

func (ins *instrumenter) recordAnswer(pluginName string) {
	ins.answerCount.Add(context.Background(), 1, metric.WithAttributes(attribute.String("name", ins.appName), attribute.String("plugin", pluginName)))
}

func (ins *instrumenter) recordDeliveryFallback() {
	ins.deliveryFallbacks.Add(context.Background(), 1, metric.WithAttributes(attribute.String("name", ins.appName)))
}

type timed func()

// measure returns the execution duration of a timed function
func measure(operation timed) (d time.Duration) {
	before := time.Now()

	operation()

	return time.Since(before)
}

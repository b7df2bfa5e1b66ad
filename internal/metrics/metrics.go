package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prohmpiriya/webtail-stripe/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Plugin call counters
	PluginCalls       *telemetry.Counter
	PluginCallsFailed *telemetry.Counter

	// Gateway outcome counters
	ChargesCreated   *telemetry.Counter
	ChargesCaptured  *telemetry.Counter
	RefundsCreated   *telemetry.Counter
	CustomersCreated *telemetry.Counter

	// Histograms
	GatewayDuration *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init creates all plugin instruments. Safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	PluginCalls, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "stripe_plugin_calls_total",
		Description: "Total number of plugin entry point calls",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	PluginCallsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "stripe_plugin_calls_failed_total",
		Description: "Total number of plugin calls that returned an error or result errors",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ChargesCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "stripe_charges_created_total",
		Description: "Total number of charges created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ChargesCaptured, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "stripe_charges_captured_total",
		Description: "Total number of authorized charges captured",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RefundsCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "stripe_refunds_created_total",
		Description: "Total number of refunds created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	CustomersCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "stripe_customers_created_total",
		Description: "Total number of Stripe customers created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	GatewayDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "stripe_plugin_call_duration_seconds",
		Description: "Duration of plugin calls including gateway round trips",
		Unit:        "s",
	}, []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	if err != nil {
		return err
	}

	return nil
}

// RecordCall records one plugin call and its duration
func RecordCall(ctx context.Context, operation string, start time.Time, failed bool) {
	attrs := []attribute.KeyValue{attribute.String("operation", operation)}
	if PluginCalls != nil {
		PluginCalls.Inc(ctx, attrs...)
	}
	if failed && PluginCallsFailed != nil {
		PluginCallsFailed.Inc(ctx, attrs...)
	}
	if GatewayDuration != nil {
		GatewayDuration.Record(ctx, time.Since(start).Seconds(), attrs...)
	}
}

// RecordCharge records a created charge
func RecordCharge(ctx context.Context, mode, status, currency string) {
	if ChargesCreated != nil {
		ChargesCreated.Inc(ctx,
			attribute.String("mode", mode),
			attribute.String("status", status),
			attribute.String("currency", currency),
		)
	}
}

// RecordCapture records a capture attempt
func RecordCapture(ctx context.Context, status string) {
	if ChargesCaptured != nil {
		ChargesCaptured.Inc(ctx, attribute.String("status", status))
	}
}

// RecordRefund records a refund attempt
func RecordRefund(ctx context.Context, status string, partial bool) {
	if RefundsCreated != nil {
		RefundsCreated.Inc(ctx,
			attribute.String("status", status),
			attribute.Bool("partial", partial),
		)
	}
}

// RecordCustomerCreated records a new Stripe customer
func RecordCustomerCreated(ctx context.Context, sandbox bool) {
	if CustomersCreated != nil {
		CustomersCreated.Inc(ctx, attribute.Bool("sandbox", sandbox))
	}
}

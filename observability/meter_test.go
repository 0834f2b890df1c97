package observability

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func sumByAttr(t *testing.T, rm metricdata.ResourceMetrics, name, attrKey, attrValue string) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	if !ok {
		t.Fatalf("metric %s not collected", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is not an int64 sum: %T", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if attrKey == "" {
			total += dp.Value
			continue
		}
		if v, ok := dp.Attributes.Value(attribute.Key(attrKey)); ok && v.AsString() == attrValue {
			total += dp.Value
		}
	}
	return total
}

func TestMetrics_RecordAndCollect(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewMetrics(provider.Meter("authd.test"))
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	ctx := context.Background()
	m.RecordLogin(ctx, "success")
	m.RecordLogin(ctx, "failure")
	m.RecordLogin(ctx, "failure")
	m.RecordRegistration(ctx, "success")
	m.RecordTokenIssued(ctx)
	m.RecordTokenRejected(ctx)
	m.RecordRequest(ctx, "POST", "/auth/login", 200, 25*time.Millisecond)

	rm := collect(t, reader)

	if got := sumByAttr(t, rm, "auth.login.total", "outcome", "success"); got != 1 {
		t.Errorf("login successes: expected 1, got %d", got)
	}
	if got := sumByAttr(t, rm, "auth.login.total", "outcome", "failure"); got != 2 {
		t.Errorf("login failures: expected 2, got %d", got)
	}
	if got := sumByAttr(t, rm, "auth.registration.total", "outcome", "success"); got != 1 {
		t.Errorf("registrations: expected 1, got %d", got)
	}
	if got := sumByAttr(t, rm, "auth.token.issued", "", ""); got != 1 {
		t.Errorf("tokens issued: expected 1, got %d", got)
	}
	if got := sumByAttr(t, rm, "auth.token.rejected", "", ""); got != 1 {
		t.Errorf("tokens rejected: expected 1, got %d", got)
	}

	hist, ok := findMetric(rm, "http.request.duration")
	if !ok {
		t.Fatal("request duration histogram not collected")
	}
	data, ok := hist.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("unexpected histogram data type: %T", hist.Data)
	}
	if len(data.DataPoints) != 1 || data.DataPoints[0].Count != 1 {
		t.Errorf("expected one recorded request, got %+v", data.DataPoints)
	}
}

func TestMetrics_NilReceiverIsNoOp(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	// Must not panic.
	m.RecordLogin(ctx, "success")
	m.RecordRegistration(ctx, "failure")
	m.RecordTokenIssued(ctx)
	m.RecordTokenRejected(ctx)
	m.RecordRequest(ctx, "GET", "/api/profile", 200, time.Millisecond)
}

package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
)

func TestStorefrontMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)
	metrics.IncCartAdd("ok")
	metrics.IncCheckout("ok")
	metrics.IncCheckout("insufficient_funds")
	metrics.ObserveOrderAmount(decimal.NewFromInt(50))
	metrics.IncWalletTopUp()
	metrics.IncRegistration()
	metrics.IncLogin("ok")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_adds_total", "outcome", "ok"); err != nil {
		t.Fatalf("fetch cart adds: %v", err)
	} else if got != 1 {
		t.Fatalf("expected cart_adds_total=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkouts_total", "outcome", "insufficient_funds"); err != nil {
		t.Fatalf("fetch checkouts: %v", err)
	} else if got != 1 {
		t.Fatalf("expected checkouts_total=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "order_amount"); err != nil {
		t.Fatalf("fetch order amount: %v", err)
	} else if got != 50 {
		t.Fatalf("expected order_amount sum 50, got %f", got)
	}

	if mf := findMetricFamily(mfs, "wallet_top_ups_total"); mf == nil {
		t.Fatal("wallet_top_ups_total not registered")
	} else if mf.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected wallet_top_ups_total=1")
	}
}

func TestStorefrontMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewStorefrontMetrics(nil)
	metrics.IncCartAdd("ok")
	metrics.IncCheckout("ok")
	metrics.ObserveOrderAmount(decimal.NewFromInt(10))
	metrics.IncWalletTopUp()
	metrics.IncRegistration()
	metrics.IncLogin("failed")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	return mf.GetMetric()[0].GetHistogram().GetSampleSum(), nil
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

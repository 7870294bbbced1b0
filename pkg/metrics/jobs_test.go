package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestJobMetricsRecordOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.IncSuccess("Order Expiry")
	m.IncSuccess("Order Expiry")
	m.IncFailure("Order Expiry")
	m.ObserveDuration("Order Expiry", 250*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	success, err := fetchCounterValue(mfs, "job_success", "job", "order_expiry")
	if err != nil {
		t.Fatal(err)
	}
	if success != 2 {
		t.Fatalf("expected 2 successes, got %v", success)
	}

	failure, err := fetchCounterValue(mfs, "job_failure", "job", "order_expiry")
	if err != nil {
		t.Fatal(err)
	}
	if failure != 1 {
		t.Fatalf("expected 1 failure, got %v", failure)
	}

	sum, err := fetchHistogramSum(mfs, "job_duration_seconds", "job", "order_expiry")
	if err != nil {
		t.Fatal(err)
	}
	if sum < 0.24 || sum > 0.26 {
		t.Fatalf("unexpected duration sum %v", sum)
	}
}

func TestJobMetricsNilSafe(t *testing.T) {
	var m *JobMetrics
	m.IncSuccess("noop")
	m.IncFailure("noop")
	m.ObserveDuration("noop", time.Second)

	empty := NewJobMetrics(nil)
	empty.IncSuccess("noop")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric family %s not found", name)
	}
	for _, metric := range mf.Metric {
		if matchesLabel(metric.Label, label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("no %s metric with %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric family %s not found", name)
	}
	for _, metric := range mf.Metric {
		if matchesLabel(metric.Label, label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("no %s metric with %s=%s", name, label, value)
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

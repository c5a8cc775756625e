package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, m *Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(metric *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, pair := range metric.GetLabel() {
		got[pair.GetName()] = pair.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestHTTPRequestCounter(t *testing.T) {
	m := New("api-test")
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments", "2xx").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/payments", "2xx").Inc()
	m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "2xx").Inc()

	got := counterValue(t, m, "payvault_http_requests_total", map[string]string{
		"method": "POST",
		"route":  "/api/v1/payments",
		"status": "2xx",
	})
	if got != 2 {
		t.Fatalf("expected 2 requests counted, got %v", got)
	}
}

func TestOutboxCounter(t *testing.T) {
	m := New("outbox-test")
	m.OutboxPublishedTotal.WithLabelValues("payment.recorded", "ok").Inc()

	got := counterValue(t, m, "payvault_outbox_published_total", map[string]string{
		"event_type": "payment.recorded",
		"result":     "ok",
	})
	if got != 1 {
		t.Fatalf("expected 1 publish counted, got %v", got)
	}
}

func TestHandlerServes(t *testing.T) {
	if New("h").Handler() == nil {
		t.Fatal("expected scrape handler")
	}
}

package metrics

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vulndetective/vulndetective/pkg/cvss"
	"github.com/vulndetective/vulndetective/pkg/finding"
)

func newTestMetrics() *Metrics {
	// A bare registry keeps the Go runtime collectors out of test output.
	return New(&Options{Registry: prometheus.NewRegistry()})
}

func TestObserveScore(t *testing.T) {
	m := newTestMetrics()
	calc := cvss.NewCalculator()

	f := finding.Finding{VulnType: "SQL Injection", Confidence: 0.9}
	score := calc.Score(&f)
	m.ObserveScore(score, calc.RiskScore(&f))

	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	byName := map[string]bool{}
	for _, fam := range families {
		byName[fam.GetName()] = true
		if fam.GetName() == "vulndetective_findings_scored_total" {
			metric := fam.GetMetric()
			if len(metric) != 1 {
				t.Fatalf("expected 1 series, got %d", len(metric))
			}
			if got := metric[0].GetLabel()[0].GetValue(); got != "Critical" {
				t.Errorf("severity label = %q, want Critical", got)
			}
			if got := metric[0].GetCounter().GetValue(); got != 1 {
				t.Errorf("counter = %v, want 1", got)
			}
		}
	}

	for _, name := range []string{
		"vulndetective_findings_scored_total",
		"vulndetective_base_score",
		"vulndetective_risk_score",
	} {
		if !byName[name] {
			t.Errorf("metric %s not gathered", name)
		}
	}
}

func TestObserveFetch(t *testing.T) {
	m := newTestMetrics()

	m.ObserveFetch("github", nil)
	m.ObserveFetch("github", nil)
	m.ObserveFetch("gist", fmt.Errorf("boom"))

	families, err := m.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}

	for _, fam := range families {
		if fam.GetName() != "vulndetective_fetches_total" {
			continue
		}
		if len(fam.GetMetric()) != 2 {
			t.Fatalf("expected 2 series, got %d", len(fam.GetMetric()))
		}
		return
	}
	t.Fatalf("vulndetective_fetches_total not gathered")
}

func TestHandler(t *testing.T) {
	m := newTestMetrics()
	m.ObserveScanDuration(0.25)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vulndetective_scan_duration_seconds") {
		t.Errorf("exposition output missing scan duration metric")
	}
}

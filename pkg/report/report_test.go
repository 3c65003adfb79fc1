package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vulndetective/vulndetective/pkg/cvss"
	"github.com/vulndetective/vulndetective/pkg/finding"
	"github.com/vulndetective/vulndetective/pkg/severity"
)

func sampleFindings() []finding.Finding {
	return []finding.Finding{
		{
			VulnType:       "SQL Injection",
			LineNumber:     42,
			Description:    "string concatenation in query",
			Confidence:     0.9,
			Exploitability: "This is a simple attack",
		},
		{
			VulnType:   "XSS",
			LineNumber: 7,
			Confidence: 0.6,
		},
		{
			VulnType:   "Custom Weakness",
			Confidence: 1.0,
		},
	}
}

func sampleReport() *Report {
	scored := ScoreFindings(cvss.NewCalculator(), sampleFindings())
	return New(
		Tool{Name: "vulndetective", Version: "test"},
		Target{Filename: "app.py", Language: "python", LineCount: 120},
		scored,
	)
}

func TestScoreFindings(t *testing.T) {
	scored := ScoreFindings(cvss.NewCalculator(), sampleFindings())

	if len(scored) != 3 {
		t.Fatalf("got %d scored findings, want 3", len(scored))
	}
	if scored[0].CVSS.BaseScore != 9.3 {
		t.Errorf("SQL Injection base = %v, want 9.3", scored[0].CVSS.BaseScore)
	}
	if scored[0].RiskScore != 9.4 {
		t.Errorf("SQL Injection risk = %v, want 9.4", scored[0].RiskScore)
	}
	if scored[2].CVSS.Severity != severity.Medium {
		t.Errorf("unknown type severity = %v, want Medium (default profile)", scored[2].CVSS.Severity)
	}
}

func TestNew_Stats(t *testing.T) {
	r := sampleReport()

	if r.ID == "" {
		t.Errorf("report ID not assigned")
	}
	if r.Stats.Severity.Total != 3 {
		t.Errorf("Total = %d, want 3", r.Stats.Severity.Total)
	}
	if r.Stats.Severity.Critical != 1 {
		t.Errorf("Critical = %d, want 1", r.Stats.Severity.Critical)
	}
	if r.Stats.Severity.Medium != 2 {
		t.Errorf("Medium = %d, want 2", r.Stats.Severity.Medium)
	}
	if r.Stats.HighestSeverity != severity.Critical {
		t.Errorf("HighestSeverity = %v, want Critical", r.Stats.HighestSeverity)
	}
	if r.Stats.MaxRiskScore != 9.4 {
		t.Errorf("MaxRiskScore = %v, want 9.4", r.Stats.MaxRiskScore)
	}
	// (9.3 + 5.3 + 5.3) / 3 = 6.633... -> 6.6
	if r.Stats.AvgBaseScore != 6.6 {
		t.Errorf("AvgBaseScore = %v, want 6.6", r.Stats.AvgBaseScore)
	}
}

func TestReport_WriteJSON_FieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	findings, ok := doc["findings"].([]any)
	if !ok || len(findings) != 3 {
		t.Fatalf("findings field missing or wrong length")
	}

	first, ok := findings[0].(map[string]any)
	if !ok {
		t.Fatalf("finding is not an object")
	}

	// Field names are a compatibility surface for report consumers.
	for _, key := range []string{"vuln_type", "line_number", "confidence", "cvss", "risk_score"} {
		if _, present := first[key]; !present {
			t.Errorf("finding missing field %q", key)
		}
	}

	cvssDoc, ok := first["cvss"].(map[string]any)
	if !ok {
		t.Fatalf("cvss field is not an object")
	}
	for _, key := range []string{"base_score", "severity", "exploitability", "impact", "vector_string", "metrics"} {
		if _, present := cvssDoc[key]; !present {
			t.Errorf("cvss missing field %q", key)
		}
	}
	if cvssDoc["vector_string"] != "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:L" {
		t.Errorf("vector_string = %v", cvssDoc["vector_string"])
	}
}

func TestReport_WriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteHTML(&buf); err != nil {
		t.Fatalf("WriteHTML() error: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"VulnDetective Report",
		"SQL Injection",
		"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:L",
		`class="vulnerability critical"`,
		"app.py",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestReport_WriteHTML_Empty(t *testing.T) {
	r := New(Tool{Name: "vulndetective"}, Target{Filename: "clean.go", Language: "go"}, nil)

	var buf bytes.Buffer
	if err := r.WriteHTML(&buf); err != nil {
		t.Fatalf("WriteHTML() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No vulnerabilities found") {
		t.Errorf("empty report should say no vulnerabilities were found")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	r := sampleReport()

	data, err := r.Archive()
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	decoded, err := DecodeArchive(data)
	if err != nil {
		t.Fatalf("DecodeArchive() error: %v", err)
	}

	if decoded.ID != r.ID {
		t.Errorf("ID = %q, want %q", decoded.ID, r.ID)
	}
	if len(decoded.Findings) != len(r.Findings) {
		t.Errorf("findings = %d, want %d", len(decoded.Findings), len(r.Findings))
	}
	if decoded.Findings[0].CVSS.VectorString != r.Findings[0].CVSS.VectorString {
		t.Errorf("vector string did not survive the round trip")
	}
}

func TestDecodeArchive_Garbage(t *testing.T) {
	if _, err := DecodeArchive([]byte("not zstd")); err == nil {
		t.Errorf("DecodeArchive() should fail on garbage input")
	}
}

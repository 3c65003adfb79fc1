package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vulndetective/vulndetective/pkg/cvss"
	"github.com/vulndetective/vulndetective/pkg/finding"
	"github.com/vulndetective/vulndetective/pkg/report"
	"github.com/vulndetective/vulndetective/pkg/severity"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "reports.db"), nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testReport(filename string) *report.Report {
	findings := []finding.Finding{
		{VulnType: "SQL Injection", LineNumber: 10, Confidence: 0.9, Exploitability: "simple"},
		{VulnType: "XSS", LineNumber: 20, Confidence: 0.5},
	}
	scored := report.ScoreFindings(cvss.NewCalculator(), findings)
	return report.New(report.Tool{Name: "vulndetective"}, report.Target{Filename: filename, Language: "python"}, scored)
}

func TestStore_SaveAndListReports(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r1 := testReport("a.py")
	r2 := testReport("b.py")
	if err := s.SaveReport(ctx, r1); err != nil {
		t.Fatalf("SaveReport() error: %v", err)
	}
	if err := s.SaveReport(ctx, r2); err != nil {
		t.Fatalf("SaveReport() error: %v", err)
	}

	summaries, err := s.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports() error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	found := map[string]bool{}
	for _, sum := range summaries {
		found[sum.Filename] = true
		if sum.FindingsCount != 2 {
			t.Errorf("%s: FindingsCount = %d, want 2", sum.Filename, sum.FindingsCount)
		}
		if sum.HighestSeverity != severity.Critical {
			t.Errorf("%s: HighestSeverity = %v, want Critical", sum.Filename, sum.HighestSeverity)
		}
	}
	if !found["a.py"] || !found["b.py"] {
		t.Errorf("missing reports in summaries: %+v", summaries)
	}
}

func TestStore_FindingsAtLeast(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveReport(ctx, testReport("app.py")); err != nil {
		t.Fatalf("SaveReport() error: %v", err)
	}

	// SQL Injection scores Critical; XSS scores Medium.
	high, err := s.FindingsAtLeast(ctx, severity.High)
	if err != nil {
		t.Fatalf("FindingsAtLeast() error: %v", err)
	}
	if len(high) != 1 {
		t.Fatalf("got %d findings at least High, want 1", len(high))
	}
	if high[0].VulnType != "SQL Injection" {
		t.Errorf("VulnType = %q", high[0].VulnType)
	}
	if high[0].VectorString != "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:L" {
		t.Errorf("VectorString = %q", high[0].VectorString)
	}

	all, err := s.FindingsAtLeast(ctx, severity.None)
	if err != nil {
		t.Fatalf("FindingsAtLeast() error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d findings, want 2", len(all))
	}
	// Ordered highest risk first.
	if all[0].RiskScore < all[1].RiskScore {
		t.Errorf("findings not ordered by risk: %v, %v", all[0].RiskScore, all[1].RiskScore)
	}
}

func TestStore_ListReports_Empty(t *testing.T) {
	s := openTestStore(t)

	summaries, err := s.ListReports(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListReports() error: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("got %d summaries, want 0", len(summaries))
	}
}

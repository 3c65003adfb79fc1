package cvss

import (
	"testing"

	"github.com/vulndetective/vulndetective/pkg/finding"
)

func TestCalculator_RiskScore(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name string
		f    finding.Finding
		want float64
	}{
		{
			name: "sql injection with keyword note",
			f: finding.Finding{
				VulnType:       "SQL Injection",
				Confidence:     0.9,
				Exploitability: "This is a simple attack",
			},
			want: 9.4, // 9.3*0.9 + 1.0 = 9.37
		},
		{
			name: "unknown type with full confidence and no note",
			f: finding.Finding{
				VulnType:   "Unknown Foo",
				Confidence: 1.0,
			},
			want: 5.3,
		},
		{
			name: "keyword match is case-insensitive",
			f: finding.Finding{
				VulnType:       "XSS",
				Confidence:     0.5,
				Exploitability: "TRIVIAL to reproduce",
			},
			want: 3.7, // 5.3*0.5 + 1.0 = 3.65
		},
		{
			name: "keyword inside a larger word still matches",
			f: finding.Finding{
				VulnType:       "XSS",
				Confidence:     1.0,
				Exploitability: "exploitation is easygoing",
			},
			want: 6.3, // substring semantics: "easy" matches
		},
		{
			name: "note without keywords yields no bonus",
			f: finding.Finding{
				VulnType:       "Command Injection",
				Confidence:     0.8,
				Exploitability: "requires an authenticated session and custom tooling",
			},
			want: 7.0, // 8.7*0.8 = 6.96
		},
		{
			name: "bonus cannot push past ten",
			f: finding.Finding{
				VulnType:       "SQL Injection",
				Confidence:     1.0,
				Exploitability: "trivial",
			},
			want: 10.0, // 9.3 + 1.0 clamped
		},
		{
			name: "zero confidence with bonus",
			f: finding.Finding{
				VulnType:       "SQL Injection",
				Confidence:     0,
				Exploitability: "easy",
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.RiskScore(&tt.f); got != tt.want {
				t.Errorf("RiskScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculator_RiskScore_MonotonicInConfidence(t *testing.T) {
	calc := NewCalculator()

	for _, note := range []string{"", "straightforward exploit"} {
		prev := -1.0
		for c := 0.0; c <= 1.0; c += 0.05 {
			f := finding.Finding{VulnType: "Path Traversal", Confidence: c, Exploitability: note}
			got := calc.RiskScore(&f)
			if got < prev {
				t.Fatalf("note %q: risk decreased from %v to %v at confidence %v", note, prev, got, c)
			}
			if got < 0 || got > 10 {
				t.Fatalf("note %q: risk %v out of range at confidence %v", note, got, c)
			}
			prev = got
		}
	}
}

func TestCalculator_RiskScore_OutOfRangeConfidencePropagates(t *testing.T) {
	calc := NewCalculator()

	// Confidence above 1 is an upstream bug; the engine clamps the result
	// rather than rejecting the input.
	f := finding.Finding{VulnType: "SQL Injection", Confidence: 2.0}
	if got := calc.RiskScore(&f); got != 10.0 {
		t.Errorf("RiskScore() = %v, want 10.0", got)
	}

	f = finding.Finding{VulnType: "XSS", Confidence: -1.0}
	if got := calc.RiskScore(&f); got != 0.0 {
		t.Errorf("RiskScore() = %v, want 0.0", got)
	}
}

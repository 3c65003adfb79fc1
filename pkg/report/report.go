// Package report assembles scored findings into scan reports and renders
// them as JSON, HTML, or a compressed archive.
package report

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vulndetective/vulndetective/pkg/cvss"
	"github.com/vulndetective/vulndetective/pkg/finding"
	"github.com/vulndetective/vulndetective/pkg/severity"
)

// Scored pairs a finding with its computed scores. The finding's JSON
// fields are inlined; report consumers read cvss and risk_score by name.
type Scored struct {
	finding.Finding

	// CVSS is the base score result.
	CVSS cvss.Score `json:"cvss"`

	// RiskScore is the aggregate risk figure in [0,10], one decimal.
	RiskScore float64 `json:"risk_score"`
}

// Target describes the analyzed file.
type Target struct {
	Filename  string `json:"filename"`
	Language  string `json:"language"`
	SizeBytes int    `json:"size_bytes,omitempty"`
	LineCount int    `json:"line_count,omitempty"`
}

// Tool identifies the report generator.
type Tool struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Stats summarizes a report's findings.
type Stats struct {
	Severity        severity.Count `json:"severity"`
	HighestSeverity severity.Level `json:"highest_severity"`
	MaxRiskScore    float64        `json:"max_risk_score"`
	AvgBaseScore    float64        `json:"avg_base_score"`
}

// Report is the root document handed to report consumers.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Tool        Tool      `json:"tool"`
	Target      Target    `json:"target"`
	Findings    []Scored  `json:"findings"`
	Stats       Stats     `json:"stats"`
}

// New builds a report over the given scored findings, assigning a fresh ID
// and computing summary statistics.
func New(tool Tool, target Target, findings []Scored) *Report {
	return &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Tool:        tool,
		Target:      target,
		Findings:    findings,
		Stats:       computeStats(findings),
	}
}

// ScoreFindings runs every finding through the calculator.
func ScoreFindings(calc *cvss.Calculator, findings []finding.Finding) []Scored {
	scored := make([]Scored, 0, len(findings))
	for i := range findings {
		f := findings[i]
		scored = append(scored, Scored{
			Finding:   f,
			CVSS:      calc.Score(&f),
			RiskScore: calc.RiskScore(&f),
		})
	}
	return scored
}

func computeStats(findings []Scored) Stats {
	var stats Stats
	var baseSum float64
	for _, s := range findings {
		stats.Severity.Increment(s.CVSS.Severity)
		baseSum += s.CVSS.BaseScore
		if s.RiskScore > stats.MaxRiskScore {
			stats.MaxRiskScore = s.RiskScore
		}
	}
	stats.HighestSeverity = stats.Severity.Highest()
	if len(findings) > 0 {
		stats.AvgBaseScore = math.Round(baseSum/float64(len(findings))*10) / 10
	}
	return stats
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Package finding defines the vulnerability record exchanged between the
// detection pipeline, the scoring engine, and the report writers.
package finding

import "github.com/vulndetective/vulndetective/pkg/severity"

// Finding is a single detected weakness in a source file.
//
// The scoring engine reads only VulnType, Confidence, and Exploitability.
// The remaining fields pass through to report output. JSON field names are
// parsed by report consumers and must not change.
type Finding struct {
	// VulnType is the weakness class label, e.g. "SQL Injection".
	// Labels outside the scoring catalog are allowed.
	VulnType string `json:"vuln_type"`

	// Severity is the detector's own qualitative assessment. Informational
	// only; the scoring engine derives severity from the base score instead.
	Severity severity.Level `json:"severity"`

	// LineNumber locates the weakness in the analyzed file.
	LineNumber int `json:"line_number"`

	// Description is the detector's explanation of the weakness.
	Description string `json:"description"`

	// CodeSnippet is the offending code excerpt, if captured.
	CodeSnippet string `json:"code_snippet,omitempty"`

	// Confidence is the detector's confidence in [0,1]. The range is an
	// upstream precondition; the engine does not validate it.
	Confidence float64 `json:"confidence"`

	// Exploitability is a free-text note on how exploitable the weakness
	// is. May be empty.
	Exploitability string `json:"exploitability,omitempty"`

	// Recommendation is the detector's suggested remediation, if any.
	Recommendation string `json:"recommendation,omitempty"`
}

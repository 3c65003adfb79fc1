package cvss

import (
	"fmt"
	"math"

	"github.com/vulndetective/vulndetective/pkg/finding"
	"github.com/vulndetective/vulndetective/pkg/severity"
)

// CVSS v3.1 base formula coefficients (Scope unchanged).
const (
	exploitabilityCoefficient = 8.22
	impactCoefficient         = 6.42
	maxScore                  = 10.0
)

// Metrics holds the short codes of the metric values a score was computed
// from, keyed the way report consumers expect.
type Metrics struct {
	AttackVector       string `json:"attack_vector"`
	AttackComplexity   string `json:"attack_complexity"`
	PrivilegesRequired string `json:"privileges_required"`
	UserInteraction    string `json:"user_interaction"`
	Confidentiality    string `json:"confidentiality"`
	Integrity          string `json:"integrity"`
	Availability       string `json:"availability"`
}

// Score is the result of scoring one finding.
type Score struct {
	// BaseScore is the CVSS v3.1 base score in [0,10], one decimal.
	BaseScore float64 `json:"base_score"`

	// Severity is the qualitative band derived from BaseScore.
	Severity severity.Level `json:"severity"`

	// Exploitability is the exploitability sub-score, one decimal.
	Exploitability float64 `json:"exploitability"`

	// Impact is the impact sub-score, one decimal.
	Impact float64 `json:"impact"`

	// VectorString is the CVSS v3.1 vector in the fixed layout
	// CVSS:3.1/AV:x/AC:x/PR:x/UI:x/S:U/C:x/I:x/A:x.
	VectorString string `json:"vector_string"`

	// Metrics is the short-code breakdown of the profile used.
	Metrics Metrics `json:"metrics"`
}

// Calculator computes CVSS v3.1 base scores and aggregate risk scores.
// The zero value is not usable; construct with NewCalculator. A Calculator
// holds no mutable state and may be shared across goroutines.
type Calculator struct{}

// NewCalculator creates a new score calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Score computes the CVSS v3.1 base score for a finding. The finding's
// type resolves to a catalogued profile, falling back to the default
// profile for unknown types. The computation is deterministic and never
// fails.
func (c *Calculator) Score(f *finding.Finding) Score {
	return ScoreProfile(ProfileFor(f.VulnType))
}

// ScoreProfile computes the CVSS v3.1 base score for a resolved profile.
func ScoreProfile(p Profile) Score {
	exploitability := exploitabilityCoefficient *
		p.AttackVector.Weight() *
		p.AttackComplexity.Weight() *
		p.PrivilegesRequired.Weight() *
		p.UserInteraction.Weight()

	impactBase := 1 - (1-p.Confidentiality.Weight())*
		(1-p.Integrity.Weight())*
		(1-p.Availability.Weight())

	var impact float64
	if impactBase > 0 {
		impact = impactCoefficient * impactBase
	}

	var base float64
	if impact > 0 {
		base = math.Min(maxScore, impact+exploitability)
	}
	base = round1(base)

	return Score{
		BaseScore:      base,
		Severity:       severity.FromScore(base),
		Exploitability: round1(exploitability),
		Impact:         round1(impact),
		VectorString:   vectorString(p),
		Metrics: Metrics{
			AttackVector:       p.AttackVector.Code(),
			AttackComplexity:   p.AttackComplexity.Code(),
			PrivilegesRequired: p.PrivilegesRequired.Code(),
			UserInteraction:    p.UserInteraction.Code(),
			Confidentiality:    p.Confidentiality.Code(),
			Integrity:          p.Integrity.Code(),
			Availability:       p.Availability.Code(),
		},
	}
}

// vectorString renders the fixed-layout CVSS v3.1 vector. Scope is always
// Unchanged; this engine does not model scope-changed vulnerabilities.
func vectorString(p Profile) string {
	return fmt.Sprintf("CVSS:3.1/AV:%s/AC:%s/PR:%s/UI:%s/S:U/C:%s/I:%s/A:%s",
		p.AttackVector.Code(),
		p.AttackComplexity.Code(),
		p.PrivilegesRequired.Code(),
		p.UserInteraction.Code(),
		p.Confidentiality.Code(),
		p.Integrity.Code(),
		p.Availability.Code(),
	)
}

// round1 rounds to one decimal, half away from zero. All scored values are
// non-negative, so ties at .05 round up.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

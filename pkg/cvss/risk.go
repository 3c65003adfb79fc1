package cvss

import (
	"strings"

	"github.com/vulndetective/vulndetective/pkg/finding"
)

// exploitKeywords are the substrings that trigger the exploitability bonus.
// Matching is case-insensitive. The keyword set and substring semantics are
// a compatibility surface for report consumers and must not change.
var exploitKeywords = []string{"easy", "trivial", "simple", "straightforward"}

// exploitabilityBonus added to the risk score when the finding's
// exploitability note contains any keyword.
const exploitabilityBonus = 1.0

// RiskScore combines a finding's base score with its detection confidence
// and exploitability note into a single figure in [0,10], one decimal:
//
//	risk = min(10, base * confidence + bonus)
//
// where bonus is 1.0 when the lowercased note contains any of "easy",
// "trivial", "simple", or "straightforward", else 0. An empty note yields
// no bonus. Confidence outside [0,1] is not rejected; it propagates
// arithmetically.
func (c *Calculator) RiskScore(f *finding.Finding) float64 {
	score := c.Score(f)
	return riskScore(score.BaseScore, f.Confidence, f.Exploitability)
}

func riskScore(baseScore, confidence float64, note string) float64 {
	risk := baseScore * confidence

	if note != "" {
		text := strings.ToLower(note)
		for _, keyword := range exploitKeywords {
			if strings.Contains(text, keyword) {
				risk += exploitabilityBonus
				break
			}
		}
	}

	if risk > maxScore {
		risk = maxScore
	}
	if risk < 0 {
		risk = 0
	}
	return round1(risk)
}

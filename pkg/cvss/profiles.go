package cvss

import "sort"

// Profile is a complete assignment of one metric value per base dimension,
// describing the typical exploitation characteristics of a weakness class.
type Profile struct {
	AttackVector       AttackVector
	AttackComplexity   AttackComplexity
	PrivilegesRequired PrivilegesRequired
	UserInteraction    UserInteraction
	Confidentiality    Impact
	Integrity          Impact
	Availability       Impact
}

// profiles maps vulnerability type labels to their scoring profiles.
// The table is read-only after package initialization and safe to share
// across concurrent callers.
var profiles = map[string]Profile{
	"SQL Injection": {
		AttackVector:       AttackVectorNetwork,
		AttackComplexity:   AttackComplexityLow,
		PrivilegesRequired: PrivilegesRequiredNone,
		UserInteraction:    UserInteractionNone,
		Confidentiality:    ImpactHigh,
		Integrity:          ImpactHigh,
		Availability:       ImpactLow,
	},
	"Command Injection": {
		AttackVector:       AttackVectorNetwork,
		AttackComplexity:   AttackComplexityLow,
		PrivilegesRequired: PrivilegesRequiredLow,
		UserInteraction:    UserInteractionNone,
		Confidentiality:    ImpactHigh,
		Integrity:          ImpactHigh,
		Availability:       ImpactHigh,
	},
	"Buffer Overflow": {
		AttackVector:       AttackVectorLocal,
		AttackComplexity:   AttackComplexityLow,
		PrivilegesRequired: PrivilegesRequiredNone,
		UserInteraction:    UserInteractionRequired,
		Confidentiality:    ImpactHigh,
		Integrity:          ImpactHigh,
		Availability:       ImpactHigh,
	},
	"XSS": {
		AttackVector:       AttackVectorNetwork,
		AttackComplexity:   AttackComplexityLow,
		PrivilegesRequired: PrivilegesRequiredNone,
		UserInteraction:    UserInteractionRequired,
		Confidentiality:    ImpactLow,
		Integrity:          ImpactLow,
		Availability:       ImpactNone,
	},
	"Path Traversal": {
		AttackVector:       AttackVectorNetwork,
		AttackComplexity:   AttackComplexityLow,
		PrivilegesRequired: PrivilegesRequiredNone,
		UserInteraction:    UserInteractionNone,
		Confidentiality:    ImpactHigh,
		Integrity:          ImpactNone,
		Availability:       ImpactNone,
	},
}

// defaultProfile is used for any vulnerability type not in the table:
// network-reachable, low complexity, low privileges, limited impact.
var defaultProfile = Profile{
	AttackVector:       AttackVectorNetwork,
	AttackComplexity:   AttackComplexityLow,
	PrivilegesRequired: PrivilegesRequiredLow,
	UserInteraction:    UserInteractionNone,
	Confidentiality:    ImpactLow,
	Integrity:          ImpactLow,
	Availability:       ImpactNone,
}

// ProfileFor resolves a vulnerability type label to its scoring profile.
// Lookup is an exact string match. Unknown labels resolve to the default
// profile; this is a normal path, not an error.
func ProfileFor(vulnType string) Profile {
	if p, ok := profiles[vulnType]; ok {
		return p
	}
	return defaultProfile
}

// KnownTypes returns the catalogued vulnerability type labels, sorted.
func KnownTypes() []string {
	types := make([]string, 0, len(profiles))
	for t := range profiles {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Package cvss implements CVSS v3.1 base scoring over a fixed catalog of
// vulnerability profiles, plus a derived risk score that weights the base
// score by detection confidence and an exploitability signal.
//
// The package is purely functional: scoring never performs I/O, never
// returns an error, and is safe for concurrent use. Unknown vulnerability
// types resolve to a default profile rather than failing.
//
// Only the base metric group is modeled. Scope is fixed to Unchanged and
// there is no temporal or environmental scoring.
package cvss

// AttackVector reflects the context by which exploitation is possible.
type AttackVector int

const (
	AttackVectorNetwork AttackVector = iota
	AttackVectorAdjacent
	AttackVectorLocal
	AttackVectorPhysical
)

// Code returns the single-letter vector string code.
func (v AttackVector) Code() string {
	switch v {
	case AttackVectorAdjacent:
		return "A"
	case AttackVectorLocal:
		return "L"
	case AttackVectorPhysical:
		return "P"
	default:
		return "N"
	}
}

// Weight returns the fixed CVSS v3.1 metric weight.
func (v AttackVector) Weight() float64 {
	switch v {
	case AttackVectorAdjacent:
		return 0.62
	case AttackVectorLocal:
		return 0.55
	case AttackVectorPhysical:
		return 0.20
	default:
		return 0.85
	}
}

// AttackComplexity reflects the conditions beyond the attacker's control
// that must exist for exploitation.
type AttackComplexity int

const (
	AttackComplexityLow AttackComplexity = iota
	AttackComplexityHigh
)

// Code returns the single-letter vector string code.
func (c AttackComplexity) Code() string {
	if c == AttackComplexityHigh {
		return "H"
	}
	return "L"
}

// Weight returns the fixed CVSS v3.1 metric weight.
func (c AttackComplexity) Weight() float64 {
	if c == AttackComplexityHigh {
		return 0.44
	}
	return 0.77
}

// PrivilegesRequired reflects the level of privileges an attacker must
// possess before exploitation.
type PrivilegesRequired int

const (
	PrivilegesRequiredNone PrivilegesRequired = iota
	PrivilegesRequiredLow
	PrivilegesRequiredHigh
)

// Code returns the single-letter vector string code.
func (p PrivilegesRequired) Code() string {
	switch p {
	case PrivilegesRequiredLow:
		return "L"
	case PrivilegesRequiredHigh:
		return "H"
	default:
		return "N"
	}
}

// Weight returns the fixed CVSS v3.1 metric weight (Scope unchanged).
func (p PrivilegesRequired) Weight() float64 {
	switch p {
	case PrivilegesRequiredLow:
		return 0.62
	case PrivilegesRequiredHigh:
		return 0.27
	default:
		return 0.85
	}
}

// UserInteraction reflects whether a user other than the attacker must
// participate in exploitation.
type UserInteraction int

const (
	UserInteractionNone UserInteraction = iota
	UserInteractionRequired
)

// Code returns the single-letter vector string code.
func (u UserInteraction) Code() string {
	if u == UserInteractionRequired {
		return "R"
	}
	return "N"
}

// Weight returns the fixed CVSS v3.1 metric weight.
func (u UserInteraction) Weight() float64 {
	if u == UserInteractionRequired {
		return 0.62
	}
	return 0.85
}

// Impact reflects the degree of loss to one of confidentiality, integrity,
// or availability.
type Impact int

const (
	ImpactNone Impact = iota
	ImpactLow
	ImpactHigh
)

// Code returns the single-letter vector string code.
func (i Impact) Code() string {
	switch i {
	case ImpactLow:
		return "L"
	case ImpactHigh:
		return "H"
	default:
		return "N"
	}
}

// Weight returns the fixed CVSS v3.1 metric weight.
func (i Impact) Weight() float64 {
	switch i {
	case ImpactLow:
		return 0.22
	case ImpactHigh:
		return 0.56
	default:
		return 0.0
	}
}

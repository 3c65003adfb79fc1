// Package severity provides the severity level definitions shared by the
// scoring engine, report generation, and persistence layers.
//
// Levels use the CVSS v3.1 qualitative rating labels. Report consumers parse
// these labels by value, so they must stay exactly as written here.
package severity

import "strings"

// Level represents a qualitative severity rating for a finding.
type Level string

const (
	// None - score of exactly zero, no measurable impact.
	None Level = "None"

	// Low - minor issue, address when convenient.
	Low Level = "Low"

	// Medium - moderate risk, address in the normal development cycle.
	Medium Level = "Medium"

	// High - serious vulnerability that should be addressed urgently.
	High Level = "High"

	// Critical - immediate action required.
	Critical Level = "Critical"
)

// AllLevels returns all severity levels in order of priority (highest first).
func AllLevels() []Level {
	return []Level{Critical, High, Medium, Low, None}
}

// String returns the string representation of the severity level.
func (l Level) String() string {
	return string(l)
}

// Priority returns the numeric priority of the severity level.
// Higher numbers = higher priority.
func (l Level) Priority() int {
	switch l {
	case Critical:
		return 4
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// IsAtLeast returns true if this severity is at least as high as the other.
func (l Level) IsAtLeast(other Level) bool {
	return l.Priority() >= other.Priority()
}

// FromScore converts a CVSS base score (0.0-10.0) to a severity level.
// Band boundaries are inclusive on the lower edge:
//   - 9.0-10.0: Critical
//   - 7.0-8.9:  High
//   - 4.0-6.9:  Medium
//   - 0.1-3.9:  Low
//   - 0.0:      None
func FromScore(score float64) Level {
	switch {
	case score >= 9.0:
		return Critical
	case score >= 7.0:
		return High
	case score >= 4.0:
		return Medium
	case score > 0:
		return Low
	default:
		return None
	}
}

// FromString normalizes a severity string to a Level. Unrecognized values
// map to None.
func FromString(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return Critical
	case "HIGH":
		return High
	case "MEDIUM", "MODERATE":
		return Medium
	case "LOW":
		return Low
	default:
		return None
	}
}

// Count tallies findings by severity level.
type Count struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	None     int `json:"none"`
	Total    int `json:"total"`
}

// Increment increases the count for the given severity.
func (c *Count) Increment(level Level) {
	c.Total++
	switch level {
	case Critical:
		c.Critical++
	case High:
		c.High++
	case Medium:
		c.Medium++
	case Low:
		c.Low++
	default:
		c.None++
	}
}

// Highest returns the highest severity level with a non-zero count.
func (c *Count) Highest() Level {
	switch {
	case c.Critical > 0:
		return Critical
	case c.High > 0:
		return High
	case c.Medium > 0:
		return Medium
	case c.Low > 0:
		return Low
	default:
		return None
	}
}

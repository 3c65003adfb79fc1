package cvss

import (
	"reflect"
	"testing"
)

func TestProfileFor_KnownTypes(t *testing.T) {
	for _, vulnType := range KnownTypes() {
		t.Run(vulnType, func(t *testing.T) {
			if got := ProfileFor(vulnType); got == defaultProfile {
				// No catalogued profile happens to equal the default, so a
				// default result here means the lookup missed.
				t.Errorf("ProfileFor(%q) returned the default profile", vulnType)
			}
		})
	}
}

func TestProfileFor_UnknownTypeFallsBack(t *testing.T) {
	tests := []string{
		"",
		"Unknown Foo",
		"sql injection", // lookup is exact-match, not case-folded
		"SQLInjection",
		"Insecure Deserialization",
	}

	for _, vulnType := range tests {
		if got := ProfileFor(vulnType); got != defaultProfile {
			t.Errorf("ProfileFor(%q) = %+v, want default profile", vulnType, got)
		}
	}
}

func TestKnownTypes(t *testing.T) {
	want := []string{
		"Buffer Overflow",
		"Command Injection",
		"Path Traversal",
		"SQL Injection",
		"XSS",
	}
	if got := KnownTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("KnownTypes() = %v, want %v", got, want)
	}
}

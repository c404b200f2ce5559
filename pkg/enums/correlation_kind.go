package enums

import "fmt"

// CorrelationKind distinguishes the dimensions of a weekly correlation snapshot.
type CorrelationKind string

const (
	CorrelationMoodActivity CorrelationKind = "mood_activity"
	CorrelationSleepQuality CorrelationKind = "sleep_quality"
)

var validCorrelationKinds = []CorrelationKind{
	CorrelationMoodActivity,
	CorrelationSleepQuality,
}

// IsValid reports whether the value matches the canonical correlation kind enum.
func (c CorrelationKind) IsValid() bool {
	for _, candidate := range validCorrelationKinds {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCorrelationKind converts the raw string to a CorrelationKind.
func ParseCorrelationKind(value string) (CorrelationKind, error) {
	for _, candidate := range validCorrelationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid correlation kind %q", value)
}

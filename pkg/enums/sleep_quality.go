package enums

import "fmt"

// SleepQuality describes the allowed sleep buckets on a mood log.
type SleepQuality string

const (
	SleepNone   SleepQuality = "No Sleep"
	SleepPoor   SleepQuality = "Poor Sleep"
	SleepMedium SleepQuality = "Medium Sleep"
	SleepGood   SleepQuality = "Good Sleep"
)

var validSleepQualities = []SleepQuality{
	SleepNone,
	SleepPoor,
	SleepMedium,
	SleepGood,
}

// IsValid reports whether the value matches the canonical sleep quality enum.
func (s SleepQuality) IsValid() bool {
	for _, candidate := range validSleepQualities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSleepQuality converts the raw string to a SleepQuality.
func ParseSleepQuality(value string) (SleepQuality, error) {
	for _, candidate := range validSleepQualities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sleep quality %q", value)
}

// SleepQualities returns the canonical bucket order used by reports.
func SleepQualities() []SleepQuality {
	out := make([]SleepQuality, len(validSleepQualities))
	copy(out, validSleepQualities)
	return out
}

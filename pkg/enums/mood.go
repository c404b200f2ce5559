package enums

import "fmt"

// Mood describes the fixed mood enumeration for mood log entries.
type Mood string

const (
	MoodHappy   Mood = "Happy"
	MoodSad     Mood = "Sad"
	MoodAngry   Mood = "Angry"
	MoodAnxious Mood = "Anxious"
	MoodNeutral Mood = "Neutral"
)

var validMoods = []Mood{
	MoodHappy,
	MoodSad,
	MoodAngry,
	MoodAnxious,
	MoodNeutral,
}

// IsValid reports whether the value matches the canonical mood enum.
func (m Mood) IsValid() bool {
	for _, candidate := range validMoods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMood converts the raw string to a Mood.
func ParseMood(value string) (Mood, error) {
	for _, candidate := range validMoods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mood %q", value)
}

package correlation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/moodpath/moodpath-backend/pkg/db/models"
	"github.com/moodpath/moodpath-backend/pkg/enums"
)

const dayFormat = "2006-01-02"

// minMoodOccurrences is the weekly floor below which no mood/activity
// correlation is reported.
const minMoodOccurrences = 3

// Sleep breakdown groups. No Sleep and Poor Sleep report as one group.
const (
	SleepGroupPoor   = "Poor Sleep"
	SleepGroupMedium = "Medium Sleep"
	SleepGroupGood   = "Good Sleep"
)

// MoodActivityEntry is the week's dominant mood paired with its dominant
// activity. Percentage is the activity's share of the mood's logs, to two
// decimal places.
type MoodActivityEntry struct {
	Mood       string `json:"mood"`
	Activity   string `json:"activity"`
	Percentage string `json:"percentage"`
}

// SleepEntry is the week's sleep-quality breakdown and verdict.
type SleepEntry struct {
	Breakdown map[string]string `json:"breakdown"`
	Verdict   string            `json:"verdict"`
}

// WeeklyStats is the computed result for one user's ISO week. Either dimension
// may be absent when the week lacks the data to support it.
type WeeklyStats struct {
	WeekStart    string             `json:"week_start"`
	MoodActivity *MoodActivityEntry `json:"mood_activity,omitempty"`
	Sleep        *SleepEntry        `json:"sleep,omitempty"`
}

// WeekBounds returns the Monday and Sunday dates of the ISO week containing t,
// in UTC.
func WeekBounds(t time.Time) (string, string) {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the week
	}
	monday := t.AddDate(0, 0, 1-weekday)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(dayFormat), sunday.Format(dayFormat)
}

// ComputeWeekly derives the week's statistics from its mood logs. Zero logs
// produce an empty result rather than a division by zero.
func ComputeWeekly(weekStart string, logs []models.MoodLog) WeeklyStats {
	stats := WeeklyStats{WeekStart: weekStart}
	if len(logs) == 0 {
		return stats
	}

	stats.MoodActivity = computeMoodActivity(logs)
	stats.Sleep = computeSleep(logs)
	return stats
}

func computeMoodActivity(logs []models.MoodLog) *MoodActivityEntry {
	moodTotals := map[enums.Mood]int{}
	activityCounts := map[enums.Mood]map[string]int{}

	for i := range logs {
		mood := logs[i].Mood
		moodTotals[mood]++
		if activityCounts[mood] == nil {
			activityCounts[mood] = map[string]int{}
		}
		for _, activity := range logs[i].Activities {
			activityCounts[mood][activity]++
		}
	}

	var topMood enums.Mood
	topMoodCount := 0
	for _, mood := range []enums.Mood{enums.MoodHappy, enums.MoodSad, enums.MoodAngry, enums.MoodAnxious, enums.MoodNeutral} {
		count := moodTotals[mood]
		if count < minMoodOccurrences {
			continue
		}
		if count > topMoodCount {
			topMood = mood
			topMoodCount = count
		}
	}
	if topMoodCount == 0 {
		return nil
	}

	topActivity := ""
	topActivityCount := 0
	for activity, count := range activityCounts[topMood] {
		if count > topActivityCount || (count == topActivityCount && activity < topActivity) {
			topActivity = activity
			topActivityCount = count
		}
	}
	if topActivityCount == 0 {
		return nil
	}

	percentage := decimal.NewFromInt(int64(topActivityCount)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(topMoodCount)))

	return &MoodActivityEntry{
		Mood:       string(topMood),
		Activity:   topActivity,
		Percentage: percentage.StringFixed(2),
	}
}

func computeSleep(logs []models.MoodLog) *SleepEntry {
	total := len(logs)
	groupCounts := map[string]int{}
	for i := range logs {
		switch logs[i].SleepQuality {
		case enums.SleepNone, enums.SleepPoor:
			groupCounts[SleepGroupPoor]++
		case enums.SleepMedium:
			groupCounts[SleepGroupMedium]++
		case enums.SleepGood:
			groupCounts[SleepGroupGood]++
		}
	}

	breakdown := make(map[string]string, 3)
	verdict := ""
	verdictCount := -1
	for _, group := range []string{SleepGroupPoor, SleepGroupMedium, SleepGroupGood} {
		count := groupCounts[group]
		percentage := decimal.NewFromInt(int64(count)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(total)))
		breakdown[group] = percentage.StringFixed(2)
		if count > verdictCount {
			verdict = group
			verdictCount = count
		}
	}

	return &SleepEntry{Breakdown: breakdown, Verdict: verdict}
}

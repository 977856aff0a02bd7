package models

import "fmt"

// MoodType selects the background-track pool and steers the tone of the
// generated script. Closed set; anything else is rejected at the edge.
type MoodType string

const (
	MoodDrill    MoodType = "drill"
	MoodEpic     MoodType = "epic"
	MoodCalm     MoodType = "calm"
	MoodIntense  MoodType = "intense"
	MoodOvercome MoodType = "overcome"
)

// AllMoods lists every recognized mood, in display order.
var AllMoods = []MoodType{MoodDrill, MoodEpic, MoodCalm, MoodIntense, MoodOvercome}

// ParseMood validates a raw mood string from the request layer.
func ParseMood(s string) (MoodType, error) {
	m := MoodType(s)
	for _, known := range AllMoods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unrecognized mood %q", s)
}

// ToneLevel is the spoken-intensity tier of a single part. The four
// values are ordered: low < medium < high < max.
type ToneLevel string

const (
	ToneLow    ToneLevel = "low"
	ToneMedium ToneLevel = "medium"
	ToneHigh   ToneLevel = "high"
	ToneMax    ToneLevel = "max"
)

var toneRank = map[ToneLevel]int{
	ToneLow:    0,
	ToneMedium: 1,
	ToneHigh:   2,
	ToneMax:    3,
}

// Valid reports whether t is one of the four recognized tone levels.
func (t ToneLevel) Valid() bool {
	_, ok := toneRank[t]
	return ok
}

// Rank returns the ordering index of the tone (low=0 .. max=3).
// Panics are not acceptable here, so unknown tones rank lowest.
func (t ToneLevel) Rank() int {
	return toneRank[t]
}

// MotivationPart is one spoken segment of a script. Order within the
// script is significant: the first part is spoken first.
type MotivationPart struct {
	Tone ToneLevel `json:"tone"`
	Text string    `json:"text"`
	// EstimatedDurationMs is filled in by the generator from word count.
	// Zero means "not yet estimated"; it is never negative.
	EstimatedDurationMs int `json:"estimated_duration_ms,omitempty"`
}

// MotivationScript is the script generator's output: an ordered set of
// parts plus the background track chosen for the mood.
type MotivationScript struct {
	Parts                    []MotivationPart `json:"parts"`
	Mood                     MoodType         `json:"mood"`
	BackgroundTrack          string           `json:"background_track"`
	TotalEstimatedDurationMs int              `json:"total_estimated_duration_ms"`
}

// TimingData is one background-ducking window, one-to-one with a part.
// Windows are contiguous: window i's EndTimeMs equals window i+1's
// StartTimeMs, and the first window starts at 0.
type TimingData struct {
	StartTimeMs        int       `json:"start_time_ms"`
	EndTimeMs          int       `json:"end_time_ms"`
	Tone               ToneLevel `json:"tone"`
	BackgroundVolumeDb float64   `json:"background_volume_db"`
}

// DurationMs returns the window length.
func (w TimingData) DurationMs() int {
	return w.EndTimeMs - w.StartTimeMs
}

// Package timing derives background-ducking windows from an ordered
// script. It is a pure function of its input: same parts in, same
// windows out, no I/O and no hidden state.
package timing

import "github.com/dev0b1/selah-sub001/internal/models"

// FallbackDurationMs is used when a part carries no duration estimate.
// The generator always fills estimates before timing runs, but the
// calculator must stay total on any parts slice.
const FallbackDurationMs = 3000

// backgroundVolumeDb maps tone to the background gain during that
// window. Louder background under high-intensity speech, quieter under
// reflective speech.
var backgroundVolumeDb = map[models.ToneLevel]float64{
	models.ToneLow:    -20,
	models.ToneMedium: -15,
	models.ToneHigh:   -8,
	models.ToneMax:    -3,
}

// BackgroundVolumeDb returns the ducking level for a tone.
func BackgroundVolumeDb(tone models.ToneLevel) float64 {
	return backgroundVolumeDb[tone]
}

// ComputeTimings walks the parts in order and produces one window per
// part. Windows start at 0 and are contiguous with no gaps or overlaps;
// the mixer relies on that to build a single unbroken volume curve.
func ComputeTimings(parts []models.MotivationPart) []models.TimingData {
	windows := make([]models.TimingData, 0, len(parts))

	clock := 0
	for _, part := range parts {
		duration := part.EstimatedDurationMs
		if duration <= 0 {
			duration = FallbackDurationMs
		}

		windows = append(windows, models.TimingData{
			StartTimeMs:        clock,
			EndTimeMs:          clock + duration,
			Tone:               part.Tone,
			BackgroundVolumeDb: backgroundVolumeDb[part.Tone],
		})
		clock += duration
	}

	return windows
}

// TotalDurationMs sums the window lengths. For windows produced by
// ComputeTimings this equals the last window's end time.
func TotalDurationMs(windows []models.TimingData) int {
	total := 0
	for _, w := range windows {
		total += w.DurationMs()
	}
	return total
}

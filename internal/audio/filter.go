// Package audio mixes synthesized speech over a looping background bed.
// Filter-graph construction is pure and testable; execution shells out
// to ffmpeg.
package audio

import (
	"fmt"
	"math"
	"strings"

	"github.com/dev0b1/selah-sub001/internal/models"
)

// Mix design constants. These are fixed for the pipeline, not tunable
// per request.
const (
	speechWeight     = 1.5
	backgroundWeight = 0.5

	loudnormIntegrated = -16.0 // LUFS
	loudnormTruePeak   = -1.5  // dBTP
	loudnormRange      = 11.0  // LU

	compressorThreshold = 0.125 // linear, ~ -18 dB
	compressorRatio     = 4.0
	compressorAttackMs  = 5.0
	compressorReleaseMs = 150.0
)

// GainForDb converts a decibel offset into a linear gain multiplier.
func GainForDb(db float64) float64 {
	return math.Pow(10, db/20)
}

// BuildVolumeExpression renders the timing windows into a single ffmpeg
// volume expression: one continuous piecewise function of t with no
// gaps, leaning on the calculator's contiguity guarantee. Nested
// conditionals select each window's gain by its end time; the last
// window's gain is the final else branch.
func BuildVolumeExpression(windows []models.TimingData) string {
	if len(windows) == 0 {
		return "1.0"
	}

	var b strings.Builder
	for _, w := range windows[:len(windows)-1] {
		endSec := float64(w.EndTimeMs) / 1000
		fmt.Fprintf(&b, "if(lt(t,%.3f),%.6f,", endSec, GainForDb(w.BackgroundVolumeDb))
	}
	fmt.Fprintf(&b, "%.6f", GainForDb(windows[len(windows)-1].BackgroundVolumeDb))
	b.WriteString(strings.Repeat(")", len(windows)-1))

	return b.String()
}

// BuildFilterGraph assembles the full filter_complex description.
// Input 0 is the speech file, input 1 the looped background track. The
// background gets the volume-automation curve, is trimmed to the total
// duration, then both are mixed with fixed weights favoring speech,
// loudness-normalized and compressed into [out].
func BuildFilterGraph(windows []models.TimingData, totalDurationMs int) string {
	totalSec := float64(totalDurationMs) / 1000

	var b strings.Builder
	fmt.Fprintf(&b, "[1:a]volume='%s':eval=frame,atrim=duration=%.3f[bg];", BuildVolumeExpression(windows), totalSec)
	fmt.Fprintf(&b, "[0:a][bg]amix=inputs=2:duration=longest:weights=%.1f %.1f,", speechWeight, backgroundWeight)
	fmt.Fprintf(&b, "loudnorm=I=%.0f:TP=%.1f:LRA=%.0f,", loudnormIntegrated, loudnormTruePeak, loudnormRange)
	fmt.Fprintf(&b, "acompressor=threshold=%.3f:ratio=%.0f:attack=%.0f:release=%.0f[out]",
		compressorThreshold, compressorRatio, compressorAttackMs, compressorReleaseMs)

	return b.String()
}

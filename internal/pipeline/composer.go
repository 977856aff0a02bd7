// Package pipeline orchestrates the composition stages: script
// generation, markup conversion, timing derivation, speech synthesis
// and background mixing. Each invocation is independent; all
// inter-stage data is passed by value.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/markup"
	"github.com/dev0b1/selah-sub001/internal/models"
	"github.com/dev0b1/selah-sub001/internal/synthesis"
	"github.com/dev0b1/selah-sub001/internal/timing"
)

// ScriptGenerator is the script-generation stage contract.
type ScriptGenerator interface {
	Generate(ctx context.Context, userText string, mood models.MoodType) (*models.MotivationScript, error)
}

// AudioMixer is the mixing stage contract.
type AudioMixer interface {
	Mix(ctx context.Context, speech []byte, backgroundTrackPath string, windows []models.TimingData, totalDurationMs int) ([]byte, error)
}

// Composer runs the full pipeline for one request.
type Composer struct {
	generator ScriptGenerator
	synth     synthesis.Synthesizer
	mixer     AudioMixer
	trackDir  string
}

// NewComposer wires the pipeline stages together. trackDir is the asset
// directory holding the background beds the track registry names.
func NewComposer(generator ScriptGenerator, synth synthesis.Synthesizer, mixer AudioMixer, trackDir string) *Composer {
	return &Composer{
		generator: generator,
		synth:     synth,
		mixer:     mixer,
		trackDir:  trackDir,
	}
}

// Compose turns raw user text and a mood string into a finished audio
// buffer. It fails fast: any stage error propagates without partial
// recovery, and no partial audio is ever returned.
func (c *Composer) Compose(ctx context.Context, userText, mood string) (*models.Composition, error) {
	start := time.Now()

	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, fmt.Errorf("%w: text is required", apperrors.ErrInvalidInput)
	}

	moodType, err := models.ParseMood(mood)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}

	generateStart := time.Now()
	script, err := c.generator.Generate(ctx, userText, moodType)
	if err != nil {
		return nil, err
	}
	generateDuration := time.Since(generateStart)

	// Markup+synthesis and timing derive from the same immutable parts
	// slice, so they can run concurrently and stay mutually consistent.
	var speech []byte
	var windows []models.TimingData

	synthStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utterance, err := markup.ToSSML(script.Parts)
		if err != nil {
			return err
		}
		speech, err = c.synth.Synthesize(gctx, utterance)
		return err
	})
	g.Go(func() error {
		windows = timing.ComputeTimings(script.Parts)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	synthDuration := time.Since(synthStart)

	// Both derivations come from the same estimates; divergence would be
	// a defect in one of them.
	if total := timing.TotalDurationMs(windows); total != script.TotalEstimatedDurationMs {
		return nil, fmt.Errorf("timing windows (%dms) diverge from script estimate (%dms)",
			total, script.TotalEstimatedDurationMs)
	}

	mixStart := time.Now()
	trackPath := filepath.Join(c.trackDir, script.BackgroundTrack)
	mixed, err := c.mixer.Mix(ctx, speech, trackPath, windows, script.TotalEstimatedDurationMs)
	if err != nil {
		return nil, err
	}
	mixDuration := time.Since(mixStart)

	logrus.WithFields(logrus.Fields{
		"mood":          moodType,
		"parts":         len(script.Parts),
		"duration_ms":   script.TotalEstimatedDurationMs,
		"generate_time": generateDuration,
		"synth_time":    synthDuration,
		"mix_time":      mixDuration,
		"total_time":    time.Since(start),
	}).Info("Composition completed")

	return &models.Composition{
		Audio:       mixed,
		ContentType: "audio/mpeg",
		DurationMs:  script.TotalEstimatedDurationMs,
		Script:      *script,
	}, nil
}

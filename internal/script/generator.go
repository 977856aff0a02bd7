// Package script turns free-form user text and a mood into an ordered
// motivation script via an upstream text-generation collaborator.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/metrics"
	"github.com/dev0b1/selah-sub001/internal/models"
	"github.com/dev0b1/selah-sub001/internal/tracks"
)

// Speech-rate model for duration estimation.
const (
	wordsPerMinute = 150
	minPartMs      = 1000
)

const promptTemplate = `You are a motivational speech writer. A user shared what they are struggling with, and you will write a short spoken motivation script for them.

USER TEXT:
%s

REQUESTED MOOD: %s

TASK:
Write 5-7 short spoken parts that build from grounding into a powerful peak. Each part is one or two sentences, written to be SPOKEN aloud.

RULES:
- Every part has a "tone": one of "low", "medium", "high", "max".
- At least one part must use tone "max".
- The first and the last part must use "medium", "high" or "max" - never "low".
- Speak directly to the user about THEIR situation. No generic filler.
- Return ONLY a JSON object in exactly this shape:

{"parts":[{"tone":"medium","text":"..."},{"tone":"high","text":"..."}]}
`

// Generator implements the script-generation stage.
type Generator struct {
	llm    TextGenerator
	tracks *tracks.Registry
}

// NewGenerator wires a generator over the given collaborator and track
// registry.
func NewGenerator(llm TextGenerator, registry *tracks.Registry) *Generator {
	return &Generator{
		llm:    llm,
		tracks: registry,
	}
}

// rawScript mirrors the JSON object the model is instructed to return.
type rawScript struct {
	Parts []struct {
		Tone string `json:"tone"`
		Text string `json:"text"`
	} `json:"parts"`
}

// Generate produces a complete script for the user's text and mood. The
// upstream response may wrap the JSON object in prose; only the first
// balanced object is parsed. Callers validate the inputs before this
// point.
func (g *Generator) Generate(ctx context.Context, userText string, mood models.MoodType) (*models.MotivationScript, error) {
	start := time.Now()

	prompt := fmt.Sprintf(promptTemplate, userText, mood)
	response, err := g.llm.GenerateText(ctx, prompt)
	metrics.Global.RecordGeneration(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGeneration, err)
	}

	parts, err := parseParts(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGeneration, err)
	}

	repairBoundaryTones(parts)

	total := 0
	for i := range parts {
		parts[i].EstimatedDurationMs = estimateDurationMs(parts[i].Text)
		total += parts[i].EstimatedDurationMs
	}

	script := &models.MotivationScript{
		Parts:                    parts,
		Mood:                     mood,
		BackgroundTrack:          g.tracks.Pick(mood),
		TotalEstimatedDurationMs: total,
	}

	logrus.WithFields(logrus.Fields{
		"mood":              mood,
		"parts":             len(parts),
		"total_duration_ms": total,
		"background_track":  script.BackgroundTrack,
		"elapsed":           time.Since(start),
	}).Info("Generated motivation script")

	return script, nil
}

// parseParts extracts and validates the parts array from the raw model
// response. Unrecognized tones are a hard failure, never coerced.
func parseParts(response string) ([]models.MotivationPart, error) {
	object, err := extractJSONObject(response)
	if err != nil {
		return nil, err
	}

	var raw rawScript
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse script object: %v", err)
	}

	if len(raw.Parts) == 0 {
		return nil, fmt.Errorf("script object contains no parts")
	}

	parts := make([]models.MotivationPart, 0, len(raw.Parts))
	for i, rp := range raw.Parts {
		tone := models.ToneLevel(rp.Tone)
		if !tone.Valid() {
			return nil, fmt.Errorf("part %d has unrecognized tone %q", i, rp.Tone)
		}

		text := strings.TrimSpace(rp.Text)
		if text == "" {
			continue
		}

		parts = append(parts, models.MotivationPart{Tone: tone, Text: text})
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("script object contains no non-empty parts")
	}

	return parts, nil
}

// repairBoundaryTones re-tags a low-tone first or last part to medium.
// The prompt forbids low boundaries, but a drifting model response
// should not fail the whole request over delivery intensity.
func repairBoundaryTones(parts []models.MotivationPart) {
	if len(parts) == 0 {
		return
	}

	if parts[0].Tone == models.ToneLow {
		logrus.Warn("Script opened on a low tone, re-tagging to medium")
		parts[0].Tone = models.ToneMedium
	}
	last := len(parts) - 1
	if parts[last].Tone == models.ToneLow {
		logrus.Warn("Script closed on a low tone, re-tagging to medium")
		parts[last].Tone = models.ToneMedium
	}
}

// estimateDurationMs estimates spoken duration from word count at
// ~150 words per minute, with a one second floor.
func estimateDurationMs(text string) int {
	wordCount := len(strings.Fields(text))
	ms := wordCount * 60000 / wordsPerMinute
	if ms < minPartMs {
		ms = minPartMs
	}
	return ms
}

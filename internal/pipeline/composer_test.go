package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/models"
)

type mockGenerator struct {
	script *models.MotivationScript
	err    error
}

func (m *mockGenerator) Generate(_ context.Context, _ string, _ models.MoodType) (*models.MotivationScript, error) {
	return m.script, m.err
}

type mockSynthesizer struct {
	audio     []byte
	err       error
	calls     int
	utterance string
}

func (m *mockSynthesizer) Synthesize(_ context.Context, markupUtterance string) ([]byte, error) {
	m.calls++
	m.utterance = markupUtterance
	return m.audio, m.err
}

type mockMixer struct {
	output []byte
	err    error
	calls  int

	gotSpeech  []byte
	gotTrack   string
	gotWindows []models.TimingData
	gotTotal   int
}

func (m *mockMixer) Mix(_ context.Context, speech []byte, backgroundTrackPath string, windows []models.TimingData, totalDurationMs int) ([]byte, error) {
	m.calls++
	m.gotSpeech = speech
	m.gotTrack = backgroundTrackPath
	m.gotWindows = windows
	m.gotTotal = totalDurationMs
	return m.output, m.err
}

func testScript() *models.MotivationScript {
	return &models.MotivationScript{
		Parts: []models.MotivationPart{
			{Tone: models.ToneMedium, Text: "You start here.", EstimatedDurationMs: 1200},
			{Tone: models.ToneHigh, Text: "Then you climb.", EstimatedDurationMs: 1200},
			{Tone: models.ToneMax, Text: "Then you take it.", EstimatedDurationMs: 2000},
		},
		Mood:                     models.MoodEpic,
		BackgroundTrack:          "epic_horizon.mp3",
		TotalEstimatedDurationMs: 4400,
	}
}

func TestCompose(t *testing.T) {
	gen := &mockGenerator{script: testScript()}
	synth := &mockSynthesizer{audio: []byte("speech")}
	mixer := &mockMixer{output: []byte("final mix")}

	composer := NewComposer(gen, synth, mixer, "/assets/tracks")

	result, err := composer.Compose(context.Background(), "I want to quit my run halfway", "epic")
	if err != nil {
		t.Fatalf("Compose() returned error: %v", err)
	}

	if string(result.Audio) != "final mix" {
		t.Errorf("audio = %q, want the mixer output", result.Audio)
	}
	if result.ContentType != "audio/mpeg" {
		t.Errorf("content type = %q, want audio/mpeg", result.ContentType)
	}
	if result.DurationMs != 4400 {
		t.Errorf("duration = %dms, want 4400", result.DurationMs)
	}

	// The synthesizer receives the rendered markup, not raw text.
	if !strings.HasPrefix(synth.utterance, "<speak>") {
		t.Errorf("synthesizer received %q, want markup utterance", synth.utterance)
	}

	// The mixer receives the synthesized speech, the resolved track path
	// and windows matching the script estimates.
	if string(mixer.gotSpeech) != "speech" {
		t.Errorf("mixer received speech %q", mixer.gotSpeech)
	}
	if want := filepath.Join("/assets/tracks", "epic_horizon.mp3"); mixer.gotTrack != want {
		t.Errorf("mixer received track %q, want %q", mixer.gotTrack, want)
	}
	if mixer.gotTotal != 4400 {
		t.Errorf("mixer received total %dms, want 4400", mixer.gotTotal)
	}
	if len(mixer.gotWindows) != 3 {
		t.Fatalf("mixer received %d windows, want 3", len(mixer.gotWindows))
	}
	if mixer.gotWindows[0].StartTimeMs != 0 {
		t.Errorf("first window starts at %d, want 0", mixer.gotWindows[0].StartTimeMs)
	}
	for i := 0; i < len(mixer.gotWindows)-1; i++ {
		if mixer.gotWindows[i].EndTimeMs != mixer.gotWindows[i+1].StartTimeMs {
			t.Errorf("windows %d and %d are not contiguous", i, i+1)
		}
	}
	if last := mixer.gotWindows[2].EndTimeMs; last != 4400 {
		t.Errorf("last window ends at %d, want 4400", last)
	}
}

func TestComposeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		mood string
	}{
		{"empty text", "", "epic"},
		{"whitespace text", "   \n\t ", "epic"},
		{"unknown mood", "some text", "aggressive"},
		{"empty mood", "some text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{script: testScript()}
			synth := &mockSynthesizer{audio: []byte("speech")}
			mixer := &mockMixer{output: []byte("final mix")}
			composer := NewComposer(gen, synth, mixer, "/assets/tracks")

			_, err := composer.Compose(context.Background(), tt.text, tt.mood)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Compose() = %v, want ErrInvalidInput", err)
			}
			if synth.calls != 0 || mixer.calls != 0 {
				t.Error("downstream stages ran despite invalid input")
			}
		})
	}
}

func TestComposeGenerationFailureStopsPipeline(t *testing.T) {
	gen := &mockGenerator{err: fmt.Errorf("%w: model unavailable", apperrors.ErrGeneration)}
	synth := &mockSynthesizer{}
	mixer := &mockMixer{}
	composer := NewComposer(gen, synth, mixer, "/assets/tracks")

	_, err := composer.Compose(context.Background(), "text", "drill")
	if !errors.Is(err, apperrors.ErrGeneration) {
		t.Errorf("Compose() = %v, want ErrGeneration", err)
	}
	if synth.calls != 0 {
		t.Error("synthesizer ran after generation failed")
	}
	if mixer.calls != 0 {
		t.Error("mixer ran after generation failed")
	}
}

func TestComposeSynthesisFailureSkipsMixing(t *testing.T) {
	gen := &mockGenerator{script: testScript()}
	synth := &mockSynthesizer{err: fmt.Errorf("%w: status 401", apperrors.ErrSynthesisAuth)}
	mixer := &mockMixer{}
	composer := NewComposer(gen, synth, mixer, "/assets/tracks")

	_, err := composer.Compose(context.Background(), "text", "epic")
	if !errors.Is(err, apperrors.ErrSynthesisAuth) {
		t.Errorf("Compose() = %v, want ErrSynthesisAuth", err)
	}
	if mixer.calls != 0 {
		t.Error("mixer ran after synthesis failed")
	}
}

func TestComposeMixFailurePropagates(t *testing.T) {
	gen := &mockGenerator{script: testScript()}
	synth := &mockSynthesizer{audio: []byte("speech")}
	mixer := &mockMixer{err: fmt.Errorf("%w: ffmpeg exited 1", apperrors.ErrMixFailed)}
	composer := NewComposer(gen, synth, mixer, "/assets/tracks")

	result, err := composer.Compose(context.Background(), "text", "epic")
	if !errors.Is(err, apperrors.ErrMixFailed) {
		t.Errorf("Compose() = %v, want ErrMixFailed", err)
	}
	if result != nil {
		t.Error("Compose() returned partial result alongside an error")
	}
}

func TestComposeDetectsTimingDivergence(t *testing.T) {
	script := testScript()
	script.TotalEstimatedDurationMs = 9999 // out of step with the parts

	gen := &mockGenerator{script: script}
	synth := &mockSynthesizer{audio: []byte("speech")}
	mixer := &mockMixer{output: []byte("final mix")}
	composer := NewComposer(gen, synth, mixer, "/assets/tracks")

	_, err := composer.Compose(context.Background(), "text", "epic")
	if err == nil {
		t.Fatal("Compose() accepted diverging duration estimates")
	}
	if mixer.calls != 0 {
		t.Error("mixer ran despite diverging estimates")
	}
}

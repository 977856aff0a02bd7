package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/models"
)

func testWindows() []models.TimingData {
	return []models.TimingData{
		{StartTimeMs: 0, EndTimeMs: 2000, Tone: models.ToneMedium, BackgroundVolumeDb: -15},
		{StartTimeMs: 2000, EndTimeMs: 3000, Tone: models.ToneMax, BackgroundVolumeDb: -3},
	}
}

func TestMixRejectsEmptySpeech(t *testing.T) {
	mixer := NewFFmpegMixer("ffmpeg", time.Second, zerolog.Nop())

	_, err := mixer.Mix(context.Background(), nil, "track.mp3", testWindows(), 3000)
	if !errors.Is(err, apperrors.ErrMixFailed) {
		t.Errorf("Mix() with empty speech = %v, want ErrMixFailed", err)
	}
}

func TestMixRejectsMissingTrack(t *testing.T) {
	mixer := NewFFmpegMixer("ffmpeg", time.Second, zerolog.Nop())

	missing := filepath.Join(t.TempDir(), "nope.mp3")
	_, err := mixer.Mix(context.Background(), []byte("audio"), missing, testWindows(), 3000)
	if !errors.Is(err, apperrors.ErrMixFailed) {
		t.Errorf("Mix() with missing track = %v, want ErrMixFailed", err)
	}
}

func TestMixCleansUpScratchOnFailure(t *testing.T) {
	scratch := t.TempDir()

	trackDir := t.TempDir()
	track := filepath.Join(trackDir, "bed.mp3")
	if err := os.WriteFile(track, []byte("not really mp3"), 0644); err != nil {
		t.Fatal(err)
	}

	// A binary that cannot exist, so the ffmpeg run fails after the
	// scratch directory and speech file were created.
	mixer := NewFFmpegMixer(filepath.Join(trackDir, "no-such-ffmpeg"), time.Second, zerolog.Nop()).
		WithTmpDir(scratch)

	_, err := mixer.Mix(context.Background(), []byte("speech bytes"), track, testWindows(), 3000)
	if !errors.Is(err, apperrors.ErrMixFailed) {
		t.Fatalf("Mix() = %v, want ErrMixFailed", err)
	}

	entries, readErr := os.ReadDir(scratch)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("scratch directory not cleaned up, %d entries remain", len(entries))
	}
}

func TestMixHonorsCancelledContext(t *testing.T) {
	trackDir := t.TempDir()
	track := filepath.Join(trackDir, "bed.mp3")
	if err := os.WriteFile(track, []byte("not really mp3"), 0644); err != nil {
		t.Fatal(err)
	}

	mixer := NewFFmpegMixer("ffmpeg", time.Minute, zerolog.Nop()).WithTmpDir(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mixer.Mix(ctx, []byte("speech bytes"), track, testWindows(), 3000)
	if !errors.Is(err, apperrors.ErrMixFailed) {
		t.Errorf("Mix() with cancelled context = %v, want ErrMixFailed", err)
	}
}

func TestNewFFmpegMixerDefaults(t *testing.T) {
	mixer := NewFFmpegMixer("", 0, zerolog.Nop())

	if mixer.ffmpegPath != "ffmpeg" {
		t.Errorf("default ffmpegPath = %q, want \"ffmpeg\"", mixer.ffmpegPath)
	}
	if mixer.timeout != 2*time.Minute {
		t.Errorf("default timeout = %v, want 2m", mixer.timeout)
	}
}

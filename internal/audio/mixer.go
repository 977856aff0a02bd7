package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/metrics"
	"github.com/dev0b1/selah-sub001/internal/models"
)

// Mixer combines speech audio with a looped, ducked background track
// into the final encoded buffer.
type Mixer interface {
	Mix(ctx context.Context, speech []byte, backgroundTrackPath string, windows []models.TimingData, totalDurationMs int) ([]byte, error)
}

// FFmpegMixer executes the filter graph with ffmpeg. Every temporary
// artifact lives in a per-call scratch directory that is removed on all
// exit paths.
type FFmpegMixer struct {
	ffmpegPath string
	tmpDir     string
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewFFmpegMixer creates a mixer. An empty ffmpegPath uses ffmpeg from
// PATH; a zero timeout defaults to two minutes.
func NewFFmpegMixer(ffmpegPath string, timeout time.Duration, logger zerolog.Logger) *FFmpegMixer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &FFmpegMixer{
		ffmpegPath: ffmpegPath,
		tmpDir:     os.TempDir(),
		timeout:    timeout,
		logger:     logger,
	}
}

// WithTmpDir overrides the scratch parent directory. Used by tests.
func (m *FFmpegMixer) WithTmpDir(dir string) *FFmpegMixer {
	m.tmpDir = dir
	return m
}

// Mix writes the speech bytes to scratch, loops the background track
// under the volume-automation curve, trims it to the total duration and
// encodes the weighted, normalized, compressed mix as MP3.
func (m *FFmpegMixer) Mix(ctx context.Context, speech []byte, backgroundTrackPath string, windows []models.TimingData, totalDurationMs int) ([]byte, error) {
	start := time.Now()

	mixed, err := m.mix(ctx, speech, backgroundTrackPath, windows, totalDurationMs)
	metrics.Global.RecordMix(time.Since(start), err)
	return mixed, err
}

func (m *FFmpegMixer) mix(ctx context.Context, speech []byte, backgroundTrackPath string, windows []models.TimingData, totalDurationMs int) ([]byte, error) {
	if len(speech) == 0 {
		return nil, fmt.Errorf("%w: no speech audio to mix", apperrors.ErrMixFailed)
	}
	if _, err := os.Stat(backgroundTrackPath); err != nil {
		return nil, fmt.Errorf("%w: background track unavailable: %v", apperrors.ErrMixFailed, err)
	}

	workDir, err := os.MkdirTemp(m.tmpDir, "selah_mix_*")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create scratch dir: %v", apperrors.ErrMixFailed, err)
	}
	defer os.RemoveAll(workDir)

	speechFile := filepath.Join(workDir, "speech.mp3")
	if err := os.WriteFile(speechFile, speech, 0644); err != nil {
		return nil, fmt.Errorf("%w: failed to write speech audio: %v", apperrors.ErrMixFailed, err)
	}

	outputFile := filepath.Join(workDir, "output.mp3")
	filterGraph := BuildFilterGraph(windows, totalDurationMs)

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, m.ffmpegPath,
		"-y",
		"-i", speechFile,
		"-stream_loop", "-1",
		"-i", backgroundTrackPath,
		"-filter_complex", filterGraph,
		"-map", "[out]",
		"-c:a", "libmp3lame",
		"-b:a", "192k",
		"-ar", "44100",
		"-ac", "2",
		outputFile,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		m.logger.Error().
			Err(err).
			Str("stderr", stderr.String()).
			Str("background_track", backgroundTrackPath).
			Msg("FFmpeg mix failed")
		return nil, fmt.Errorf("%w: ffmpeg: %v", apperrors.ErrMixFailed, err)
	}

	mixed, err := os.ReadFile(outputFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read mixed output: %v", apperrors.ErrMixFailed, err)
	}

	m.logger.Info().
		Int("windows", len(windows)).
		Int("total_duration_ms", totalDurationMs).
		Int("output_bytes", len(mixed)).
		Msg("Mixed speech over background track")

	return mixed, nil
}

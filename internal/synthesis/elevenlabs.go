package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dev0b1/selah-sub001/internal/config"
	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/metrics"
)

const defaultBaseURL = "https://api.elevenlabs.io/v1"

// ElevenLabsClient synthesizes speech through the ElevenLabs API with a
// fixed voice identity and delivery settings.
type ElevenLabsClient struct {
	baseURL    string
	apiKey     string
	voiceID    string
	modelID    string
	settings   voiceSettings
	httpClient *http.Client
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// NewElevenLabsClient builds a client from the voice configuration.
func NewElevenLabsClient(cfg *config.VoiceConfig) *ElevenLabsClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = "eleven_multilingual_v2"
	}

	return &ElevenLabsClient{
		baseURL: defaultBaseURL,
		apiKey:  cfg.ApiKey,
		voiceID: cfg.VoiceID,
		modelID: modelID,
		settings: voiceSettings{
			Stability:       cfg.Stability,
			SimilarityBoost: cfg.SimilarityBoost,
			Style:           cfg.Style,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (c *ElevenLabsClient) WithBaseURL(url string) *ElevenLabsClient {
	c.baseURL = url
	return c
}

// Synthesize sends the markup utterance and returns the complete audio
// payload. Non-success statuses map to the synthesis error taxonomy so
// the caller can message auth problems and rate limits differently.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, markupUtterance string) ([]byte, error) {
	start := time.Now()

	payload, err := json.Marshal(synthesizeRequest{
		Text:          markupUtterance,
		ModelID:       c.modelID,
		VoiceSettings: c.settings,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisUnavailable, err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisUnavailable, err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.Global.RecordSynthesis(time.Since(start), err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSynthesisUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := statusError(resp.StatusCode, string(body))
		metrics.Global.RecordSynthesis(time.Since(start), err)
		return nil, err
	}

	audio, err := io.ReadAll(resp.Body)
	metrics.Global.RecordSynthesis(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read audio response: %v", apperrors.ErrSynthesisUnavailable, err)
	}

	logrus.WithFields(logrus.Fields{
		"audio_bytes": len(audio),
		"elapsed":     time.Since(start),
	}).Info("Speech synthesis completed")

	return audio, nil
}

// statusError maps an upstream status code onto the error taxonomy.
func statusError(status int, body string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", apperrors.ErrSynthesisAuth, status, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d: %s", apperrors.ErrRateLimited, status, body)
	default:
		return fmt.Errorf("%w: status %d: %s", apperrors.ErrSynthesisUnavailable, status, body)
	}
}

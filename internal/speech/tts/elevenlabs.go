package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ElevenLabsConfig holds configuration for the ElevenLabs TTS backend.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.elevenlabs.io/v1"
	VoiceID string // default: "EXAVITQu4vr4xnSDxMaL" (Sarah)
	ModelID string // default: "eleven_multilingual_v2"
}

// ElevenLabs synthesizes speech via the ElevenLabs API.
type ElevenLabs struct {
	cfg        ElevenLabsConfig
	httpClient *http.Client
}

func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = "EXAVITQu4vr4xnSDxMaL"
	}
	if cfg.ModelID == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	return &ElevenLabs{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

// voiceSettings tuned for a calm, consistent coach voice that still sounds
// human. All values are in the provider's 0-1 range.
type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

func (e *ElevenLabs) Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error) {
	voice := req.Voice
	if voice == "" {
		voice = e.cfg.VoiceID
	}

	body := map[string]any{
		"text":     req.Text,
		"model_id": e.cfg.ModelID,
		"voice_settings": voiceSettings{
			Stability:       0.6,
			SimilarityBoost: 0.7,
			Style:           0.3,
			UseSpeakerBoost: false,
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", e.cfg.BaseURL+"/text-to-speech/"+voice, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(resp.Body)
		return nil, classifyError(resp.StatusCode, errText)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	return &SynthesisResult{
		Audio:       audio,
		ContentType: "audio/mpeg",
	}, nil
}

// classifyError inspects the structured error body when present. A
// quota_exceeded detail gets its own user-facing message; otherwise the
// provider's message or raw error text is passed through.
func classifyError(status int, errText []byte) *Error {
	var payload struct {
		Detail struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(errText, &payload); err == nil {
		if payload.Detail.Status == "quota_exceeded" {
			return &Error{
				StatusCode: status,
				Message:    "ElevenLabs quota exceeded. Please check your API usage.",
				Quota:      true,
			}
		}
		if payload.Detail.Message != "" {
			return &Error{StatusCode: status, Message: payload.Detail.Message}
		}
	}

	msg := string(errText)
	if msg == "" {
		msg = "Voice generation failed"
	}
	return &Error{StatusCode: status, Message: msg}
}

package stt

import (
	"context"
	"errors"
)

// Size window for uploaded audio. Whisper rejects anything over 25MB, and
// recordings under about a kilobyte carry no usable signal.
const (
	MinAudioBytes = 1000
	MaxAudioBytes = 25 * 1024 * 1024
)

// Failure kinds the orchestrator distinguishes. ErrNoSpeechDetected means the
// provider call itself succeeded but recognized no speech; the others are
// detected locally before any network call.
var (
	ErrNoAudioData      = errors.New("audio file too small - no data recorded")
	ErrTooLarge         = errors.New("audio file too large (max 25MB)")
	ErrNoSpeechDetected = errors.New("no speech detected in audio")
)

// TranscriptionRequest holds the parameters for audio transcription.
type TranscriptionRequest struct {
	FilePath string `json:"file_path"`
	Language string `json:"language,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
}

// TranscriptionResponse holds the transcription result. Text is non-empty on
// success.
type TranscriptionResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Provider is the interface for speech-to-text backends.
type Provider interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
	Name() string
}

// Error is a provider failure carrying the upstream HTTP status.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

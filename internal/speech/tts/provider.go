package tts

import "context"

// SynthesisRequest holds the parameters for text-to-speech generation.
// Text must be non-empty; callers filter before calling.
type SynthesisRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
	Speed float64 `json:"speed,omitempty"`
}

// SynthesisResult holds the generated audio and its content type.
type SynthesisResult struct {
	Audio       []byte
	ContentType string // "audio/mpeg" for both backends
}

// Provider is the interface for text-to-speech backends.
type Provider interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (*SynthesisResult, error)
	Name() string
}

// Error is a synthesis failure. StatusCode carries the provider's HTTP status
// so the ingress layer passes it through; Quota marks a recognized
// quota/rate-limit condition with a user-facing Message.
type Error struct {
	StatusCode int
	Message    string
	Quota      bool
}

func (e *Error) Error() string { return e.Message }

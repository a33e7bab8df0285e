package coaching

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/clearvoice/coach-api/internal/speech/stt"
	"github.com/clearvoice/coach-api/internal/speech/tts"
)

const (
	transcribeTimeout = 60 * time.Second
	synthesisTimeout  = 120 * time.Second
)

// PipelineOptions select which downstream stages run after transcription.
type PipelineOptions struct {
	Language string
	Question string
	Analyze  bool
	Voice    bool
}

// PipelineResult aggregates one upload's worth of results. Transcription is
// required; analysis and voice degrade independently, each leaving its error
// message behind instead of failing the request.
type PipelineResult struct {
	Transcript    string          `json:"transcript"`
	Duration      float64         `json:"duration,omitempty"`
	Feedback      *Feedback       `json:"feedback,omitempty"`
	Scored        *ScoredAnalysis `json:"analysis,omitempty"`
	AnalysisError string          `json:"analysisError,omitempty"`
	Audio         string          `json:"audio,omitempty"` // base64 MP3
	VoiceError    string          `json:"voiceError,omitempty"`
}

// Pipeline chains transcribe, analyze and synthesize for one uploaded
// recording. Stages run strictly in order: each consumes the previous
// stage's output.
type Pipeline struct {
	stt      stt.Provider
	tts      tts.Provider
	analyzer *Analyzer
}

// NewPipeline wires the three stages. tts and analyzer may be nil when the
// matching credential is absent; the corresponding stage is then skipped.
func NewPipeline(sttProvider stt.Provider, ttsProvider tts.Provider, analyzer *Analyzer) *Pipeline {
	return &Pipeline{stt: sttProvider, tts: ttsProvider, analyzer: analyzer}
}

// Run executes the workflow for the audio file at path. A transcription
// failure aborts; any later stage failure degrades the result instead.
func (p *Pipeline) Run(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	tctx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	transcription, err := p.stt.Transcribe(tctx, stt.TranscriptionRequest{
		FilePath: path,
		Language: opts.Language,
	})
	cancel()
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Transcript: transcription.Text,
		Duration:   transcription.Duration,
	}

	if !opts.Analyze || p.analyzer == nil {
		return result, nil
	}

	analysis, err := p.analyzer.Analyze(ctx, AnalyzeInput{
		Text:     transcription.Text,
		Question: opts.Question,
		Language: opts.Language,
	})
	if err != nil {
		slog.Warn("analysis stage degraded", "error", err)
		result.AnalysisError = "Coaching generation failed."
		return result, nil
	}
	result.Feedback = analysis.Feedback
	result.Scored = analysis.Scored

	if !opts.Voice || p.tts == nil {
		return result, nil
	}

	speak := ""
	if analysis.Feedback != nil {
		speak = analysis.Feedback.CoachReply
	}
	if speak == "" {
		return result, nil
	}

	sctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	clip, err := p.tts.Synthesize(sctx, tts.SynthesisRequest{Text: speak})
	cancel()
	if err != nil {
		slog.Warn("voice stage degraded", "error", err)
		result.VoiceError = err.Error()
		return result, nil
	}

	result.Audio = base64.StdEncoding.EncodeToString(clip.Audio)
	return result, nil
}

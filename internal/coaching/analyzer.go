package coaching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/clearvoice/coach-api/internal/config"
	"github.com/clearvoice/coach-api/internal/llm"
	"github.com/clearvoice/coach-api/internal/prompt"
)

const generationTimeout = 60 * time.Second

// ErrGenerationParse means the model answered but no usable object could be
// recovered from its output. The analyze handler reports this as a soft
// failure in the response body, not as an HTTP error.
var ErrGenerationParse = errors.New("generation output could not be parsed")

// FollowUpFallback fills followUp when the model omits it, so the response
// always ends with a question the user can act on.
const FollowUpFallback = "Try answering again more concisely."

// ChatClient is the slice of the llm gateway the orchestrator needs.
type ChatClient interface {
	Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error)
}

// Feedback is the coaching-feedback record. All fields are plain strings;
// absent fields come back empty except for the documented fallbacks.
type Feedback struct {
	Clarity         string `json:"clarity"`
	Grammar         string `json:"grammar"`
	Phrasing        string `json:"phrasing"`
	FillerWords     string `json:"fillerWords"`
	ExampleSentence string `json:"exampleSentence"`
	FollowUp        string `json:"followUp"`
	Reply           string `json:"reply"`
	CoachReply      string `json:"coachReply"`
}

// ScoredAnalysis is the rich scored-category analysis variant.
type ScoredAnalysis struct {
	OverallScore   float64             `json:"overallScore"`
	Summary        string              `json:"summary"`
	CategoryScores []CategoryScore     `json:"categoryScores"`
	Transcript     []TranscriptSegment `json:"transcript"`
	StrongMoments  []Moment            `json:"strongMoments"`
	AreasToImprove []Moment            `json:"areasToImprove"`
}

type CategoryScore struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Score    float64  `json:"score"`
	Insight  string   `json:"insight"`
	Details  []string `json:"details"`
}

type TranscriptSegment struct {
	Type string `json:"type"` // "normal" or "filler"
	Text string `json:"text"`
}

type Moment struct {
	Timestamp     string  `json:"timestamp"`
	TimeInSeconds float64 `json:"timeInSeconds"`
	Description   string  `json:"description"`
}

// AnalysisResult is a tagged union: exactly one of Feedback or Scored is set,
// according to Mode.
type AnalysisResult struct {
	Mode     string
	Feedback *Feedback
	Scored   *ScoredAnalysis
}

// AnalyzeInput is one transcript to coach on.
type AnalyzeInput struct {
	Text     string
	Question string
	Language string
}

// Analyzer runs the analyze workflow: one generation call, then strict
// extraction of the expected object from the raw model text.
type Analyzer struct {
	chat     ChatClient
	provider string
	model    string
	mode     string
}

func NewAnalyzer(chat ChatClient, cfg config.LLM) *Analyzer {
	return &Analyzer{
		chat:     chat,
		provider: cfg.AnalysisProvider,
		model:    cfg.AnalysisModel,
		mode:     cfg.AnalysisMode,
	}
}

func (a *Analyzer) Mode() string { return a.mode }

func (a *Analyzer) Analyze(ctx context.Context, in AnalyzeInput) (*AnalysisResult, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	systemPrompt := prompt.CoachingPrompt(in.Language)
	maxTokens := 800
	if a.mode == "scored" {
		systemPrompt = prompt.ScoredAnalysisPrompt()
		maxTokens = 4096
	}

	userContent := "Answer:\n" + in.Text
	if in.Question != "" {
		userContent = fmt.Sprintf("Question: %s\n\nAnswer:\n%s", in.Question, in.Text)
	}

	resp, err := a.chat.Chat(ctx, llm.ChatRequest{
		Provider: a.provider,
		Model:    a.model,
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: 0.2,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, err
	}

	if a.mode == "scored" {
		scored, ok := parseScored(resp.Content)
		if !ok {
			return nil, ErrGenerationParse
		}
		return &AnalysisResult{Mode: "scored", Scored: scored}, nil
	}

	fb, ok := parseFeedback(resp.Content)
	if !ok {
		return nil, ErrGenerationParse
	}
	return &AnalysisResult{Mode: "coaching", Feedback: fb}, nil
}

func parseFeedback(raw string) (*Feedback, bool) {
	span, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, false
	}

	var fb Feedback
	if err := json.Unmarshal([]byte(span), &fb); err != nil {
		return nil, false
	}

	// A record without any clarity signal is a failed generation, not a
	// feedback object with holes.
	if fb.Clarity == "" && fb.Reply == "" && fb.ExampleSentence == "" {
		return nil, false
	}

	if fb.FollowUp == "" {
		fb.FollowUp = FollowUpFallback
	}
	fb.CoachReply = fb.Reply
	if fb.CoachReply == "" {
		fb.CoachReply = fb.ExampleSentence + " " + fb.FollowUp
	}

	return &fb, true
}

func parseScored(raw string) (*ScoredAnalysis, bool) {
	span, ok := ExtractJSONObject(raw)
	if !ok {
		return nil, false
	}

	var sa ScoredAnalysis
	if err := json.Unmarshal([]byte(span), &sa); err != nil {
		return nil, false
	}
	if sa.OverallScore == 0 {
		return nil, false
	}
	return &sa, true
}

package coaching

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearvoice/coach-api/internal/config"
	"github.com/clearvoice/coach-api/internal/llm"
	"github.com/clearvoice/coach-api/internal/prompt"
)

type fakeChat struct {
	calls   int
	lastReq llm.ChatRequest
	content string
	err     error
}

func (f *fakeChat) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatResponse{Provider: req.Provider, Model: req.Model, Content: f.content}, nil
}

func coachingConfig() config.LLM {
	return config.LLM{
		AnalysisProvider: "anthropic",
		AnalysisModel:    "claude-sonnet-4-20250514",
		AnalysisMode:     "coaching",
	}
}

func TestAnalyze_RoundTrip(t *testing.T) {
	want := Feedback{
		Clarity:         "Clear overall, but slow down at the start.",
		Grammar:         "Use past tense for finished projects.",
		Phrasing:        "Say 'I led the project' instead of 'I was leading'.",
		FillerWords:     "You said 'um' four times.",
		ExampleSentence: "I led a team of three engineers on the migration.",
		FollowUp:        "Can you describe your role in one sentence?",
		Reply:           "Great start! Can you describe your role in one sentence?",
	}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	chat := &fakeChat{content: "Here you go:\n" + string(raw)}
	a := NewAnalyzer(chat, coachingConfig())

	result, err := a.Analyze(context.Background(), AnalyzeInput{Text: "I was leading a team."})
	require.NoError(t, err)
	require.NotNil(t, result.Feedback)

	got := *result.Feedback
	assert.Equal(t, want.Clarity, got.Clarity)
	assert.Equal(t, want.Grammar, got.Grammar)
	assert.Equal(t, want.Phrasing, got.Phrasing)
	assert.Equal(t, want.FillerWords, got.FillerWords)
	assert.Equal(t, want.ExampleSentence, got.ExampleSentence)
	assert.Equal(t, want.FollowUp, got.FollowUp)
	assert.Equal(t, want.Reply, got.Reply)
	assert.Equal(t, want.Reply, got.CoachReply)
}

func TestAnalyze_FollowUpFallback(t *testing.T) {
	chat := &fakeChat{content: `{"clarity": "Good.", "exampleSentence": "I built it."}`}
	a := NewAnalyzer(chat, coachingConfig())

	result, err := a.Analyze(context.Background(), AnalyzeInput{Text: "answer"})
	require.NoError(t, err)

	fb := result.Feedback
	assert.Equal(t, FollowUpFallback, fb.FollowUp)
	assert.Equal(t, "I built it. "+FollowUpFallback, fb.CoachReply)
}

func TestAnalyze_MalformedOutput(t *testing.T) {
	for name, content := range map[string]string{
		"no json":      "Sorry, I cannot help with that.",
		"broken json":  `{"clarity": "good"`,
		"empty fields": `{"somethingElse": "value"}`,
	} {
		t.Run(name, func(t *testing.T) {
			chat := &fakeChat{content: content}
			a := NewAnalyzer(chat, coachingConfig())

			_, err := a.Analyze(context.Background(), AnalyzeInput{Text: "answer"})
			assert.ErrorIs(t, err, ErrGenerationParse)
		})
	}
}

func TestAnalyze_QuestionFormatting(t *testing.T) {
	chat := &fakeChat{content: `{"clarity": "Good."}`}
	a := NewAnalyzer(chat, coachingConfig())

	_, err := a.Analyze(context.Background(), AnalyzeInput{
		Text:     "My answer.",
		Question: "Tell me about yourself.",
	})
	require.NoError(t, err)

	require.Len(t, chat.lastReq.Messages, 2)
	assert.Equal(t, "Question: Tell me about yourself.\n\nAnswer:\nMy answer.", chat.lastReq.Messages[1].Content)
}

func TestAnalyze_NoQuestionFormatting(t *testing.T) {
	chat := &fakeChat{content: `{"clarity": "Good."}`}
	a := NewAnalyzer(chat, coachingConfig())

	_, err := a.Analyze(context.Background(), AnalyzeInput{Text: "My answer."})
	require.NoError(t, err)
	assert.Equal(t, "Answer:\nMy answer.", chat.lastReq.Messages[1].Content)
}

func TestAnalyze_LanguageSelectsPrompt(t *testing.T) {
	chat := &fakeChat{content: `{"clarity": "Bien."}`}
	a := NewAnalyzer(chat, coachingConfig())

	_, err := a.Analyze(context.Background(), AnalyzeInput{Text: "respuesta", Language: "es"})
	require.NoError(t, err)
	assert.Equal(t, prompt.CoachingPrompt("es"), chat.lastReq.Messages[0].Content)
}

func TestAnalyze_RequestParameters(t *testing.T) {
	chat := &fakeChat{content: `{"clarity": "Good."}`}
	a := NewAnalyzer(chat, coachingConfig())

	_, err := a.Analyze(context.Background(), AnalyzeInput{Text: "answer"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", chat.lastReq.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", chat.lastReq.Model)
	assert.Equal(t, 800, chat.lastReq.MaxTokens)
	assert.InDelta(t, 0.2, chat.lastReq.Temperature, 1e-9)
}

func TestAnalyze_ProviderError(t *testing.T) {
	wantErr := &llm.Error{Provider: "anthropic", StatusCode: 429, Message: "overloaded"}
	chat := &fakeChat{err: wantErr}
	a := NewAnalyzer(chat, coachingConfig())

	_, err := a.Analyze(context.Background(), AnalyzeInput{Text: "answer"})
	var llmErr *llm.Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, 429, llmErr.StatusCode)
}

func TestAnalyze_ScoredMode(t *testing.T) {
	cfg := coachingConfig()
	cfg.AnalysisMode = "scored"

	chat := &fakeChat{content: `{
		"overallScore": 82,
		"summary": "Strong delivery with minor pacing issues.",
		"categoryScores": [{"id": 3, "category": "Clarity", "score": 85, "insight": "Clear articulation", "details": ["good word choice"]}],
		"transcript": [{"type": "normal", "text": "Hello"}, {"type": "filler", "text": "um"}],
		"strongMoments": [{"timestamp": "0:05", "timeInSeconds": 5, "description": "confident open"}],
		"areasToImprove": [{"timestamp": "0:20", "timeInSeconds": 20, "description": "rushed close"}]
	}`}
	a := NewAnalyzer(chat, cfg)

	result, err := a.Analyze(context.Background(), AnalyzeInput{Text: "answer"})
	require.NoError(t, err)
	require.NotNil(t, result.Scored)
	assert.Nil(t, result.Feedback)
	assert.Equal(t, float64(82), result.Scored.OverallScore)
	assert.Len(t, result.Scored.CategoryScores, 1)
	assert.Equal(t, "filler", result.Scored.Transcript[1].Type)
	assert.Equal(t, 4096, chat.lastReq.MaxTokens)
	assert.Equal(t, prompt.ScoredAnalysisPrompt(), chat.lastReq.Messages[0].Content)
}

func TestAnalyze_ScoredMode_MissingOverallScore(t *testing.T) {
	cfg := coachingConfig()
	cfg.AnalysisMode = "scored"

	chat := &fakeChat{content: `{"summary": "ok"}`}
	a := NewAnalyzer(chat, cfg)

	_, err := a.Analyze(context.Background(), AnalyzeInput{Text: "answer"})
	assert.ErrorIs(t, err, ErrGenerationParse)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearvoice/coach-api/internal/coaching"
	"github.com/clearvoice/coach-api/internal/config"
	"github.com/clearvoice/coach-api/internal/llm"
)

func coachingAnalyzer(chat coaching.ChatClient) *coaching.Analyzer {
	return coaching.NewAnalyzer(chat, config.LLM{
		AnalysisProvider: "anthropic",
		AnalysisModel:    "claude-sonnet-4-20250514",
		AnalysisMode:     "coaching",
	})
}

func scoredAnalyzer(chat coaching.ChatClient) *coaching.Analyzer {
	return coaching.NewAnalyzer(chat, config.LLM{
		AnalysisProvider: "anthropic",
		AnalysisModel:    "claude-sonnet-4-20250514",
		AnalysisMode:     "scored",
	})
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAnalyze_Unconfigured(t *testing.T) {
	h := NewAnalyzeHandler(nil)

	rec := httptest.NewRecorder()
	h.Analyze(rec, postJSON("/api/analyze", `{"transcript": "hello"}`))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Analysis not configured: ANTHROPIC_API_KEY missing", errorBody(t, rec))
}

func TestAnalyze_MissingTranscript(t *testing.T) {
	chat := &fakeChat{content: coachingJSON}
	h := NewAnalyzeHandler(coachingAnalyzer(chat))

	for _, body := range []string{`{}`, `{"transcript": ""}`, `not json`} {
		rec := httptest.NewRecorder()
		h.Analyze(rec, postJSON("/api/analyze", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, `Request body must include "transcript" or "text".`, errorBody(t, rec))
	}
	assert.Zero(t, chat.calls)
}

func TestAnalyze_TextFieldAccepted(t *testing.T) {
	chat := &fakeChat{content: coachingJSON}
	h := NewAnalyzeHandler(coachingAnalyzer(chat))

	rec := httptest.NewRecorder()
	h.Analyze(rec, postJSON("/api/analyze", `{"text": "I led the project."}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, chat.calls)
}

func TestAnalyze_CoachingSuccess(t *testing.T) {
	chat := &fakeChat{content: coachingJSON}
	h := NewAnalyzeHandler(coachingAnalyzer(chat))

	rec := httptest.NewRecorder()
	h.Analyze(rec, postJSON("/api/analyze", `{"transcript": "I led the project.", "question": "Tell me about a project."}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Clear overall.", body["clarity"])
	assert.Equal(t, "What was the hardest trade-off?", body["followUp"])
	assert.NotEmpty(t, body["coachReply"])
	assert.NotContains(t, body, "error")
}

func TestAnalyze_CoachingParseFailureIsSoft200(t *testing.T) {
	chat := &fakeChat{content: "the model rambled and produced no json"}
	h := NewAnalyzeHandler(coachingAnalyzer(chat))

	rec := httptest.NewRecorder()
	h.Analyze(rec, postJSON("/api/analyze", `{"transcript": "hello"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Coaching generation failed.", errorBody(t, rec))
}

func TestAnalyze_ScoredParseFailureIs500(t *testing.T) {
	chat := &fakeChat{content: "no json"}
	h := NewAnalyzeHandler(scoredAnalyzer(chat))

	rec := httptest.NewRecorder()
	h.Analyze(rec, postJSON("/api/analyze", `{"transcript": "hello"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Analysis generation failed.", errorBody(t, rec))
}

func TestAnalyze_ScoredSuccess(t *testing.T) {
	chat := &fakeChat{content: `{
	  "overallScore": 78,
	  "summary": "Solid structure, some filler.",
	  "categoryScores": [{"id": 3, "category": "Clarity", "score": 82, "insight": "Mostly clear."}],
	  "transcript": [],
	  "strongMoments": [],
	  "areasToImprove": []
	}`}
	h := NewAnalyzeHandler(scoredAnalyzer(chat))

	rec := httptest.NewRecorder()
	h.Analyze(rec, postJSON("/api/analyze", `{"transcript": "hello"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 78, body["overallScore"], 1e-9)
	assert.Equal(t, "Solid structure, some filler.", body["summary"])
}

func TestAnalyze_ProviderStatusPassedThrough(t *testing.T) {
	chat := &fakeChat{err: &llm.Error{Provider: "anthropic", StatusCode: 429, Message: "rate limited"}}
	h := NewAnalyzeHandler(coachingAnalyzer(chat))

	rec := httptest.NewRecorder()
	h.Analyze(rec, postJSON("/api/analyze", `{"transcript": "hello"}`))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

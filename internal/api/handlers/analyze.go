package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clearvoice/coach-api/internal/coaching"
)

type AnalyzeHandler struct {
	analyzer *coaching.Analyzer // nil when analysis is unconfigured
}

func NewAnalyzeHandler(analyzer *coaching.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
	Text       string `json:"text"`
	Question   string `json:"question,omitempty"`
	Language   string `json:"language,omitempty"`
}

// Analyze runs coaching analysis on a transcript the client already has.
// A parse failure of the model output is a soft failure in coaching mode:
// the response is a 200 whose body carries the error field, which is what
// clients key off.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "Analysis not configured: ANTHROPIC_API_KEY missing")
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, `Request body must include "transcript" or "text".`)
		return
	}

	text := req.Transcript
	if text == "" {
		text = req.Text
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, `Request body must include "transcript" or "text".`)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), coaching.AnalyzeInput{
		Text:     text,
		Question: req.Question,
		Language: req.Language,
	})
	if err != nil {
		if errors.Is(err, coaching.ErrGenerationParse) {
			if h.analyzer.Mode() == "scored" {
				writeError(w, http.StatusInternalServerError, "Analysis generation failed.")
				return
			}
			writeError(w, http.StatusOK, "Coaching generation failed.")
			return
		}
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	if result.Scored != nil {
		writeJSON(w, http.StatusOK, result.Scored)
		return
	}
	writeJSON(w, http.StatusOK, result.Feedback)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clearvoice/coach-api/internal/llm"
	"github.com/clearvoice/coach-api/internal/speech/stt"
	"github.com/clearvoice/coach-api/internal/speech/tts"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError emits the uniform failure body. Every failure the client sees is
// a JSON object with a human-readable "error" string.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// upstreamStatus maps a gateway failure to the HTTP status the client gets:
// the provider's own status when one exists, 504 for a timed-out call, 500
// otherwise.
func upstreamStatus(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) && llmErr.StatusCode > 0 {
		return llmErr.StatusCode
	}
	var sttErr *stt.Error
	if errors.As(err, &sttErr) && sttErr.StatusCode > 0 {
		return sttErr.StatusCode
	}
	var ttsErr *tts.Error
	if errors.As(err, &ttsErr) && ttsErr.StatusCode > 0 {
		return ttsErr.StatusCode
	}

	return http.StatusInternalServerError
}

package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/clearvoice/coach-api/internal/speech/tts"
)

const synthesisTimeout = 120 * time.Second

type VoiceHandler struct {
	tts tts.Provider // nil when no TTS credential is configured
}

func NewVoiceHandler(provider tts.Provider) *VoiceHandler {
	return &VoiceHandler{tts: provider}
}

type voiceRequest struct {
	Text string `json:"text"`
}

// Speak synthesizes one utterance and returns it base64-encoded. Provider
// failures keep their upstream status so quota responses reach the client
// as the 4xx they are.
func (h *VoiceHandler) Speak(w http.ResponseWriter, r *http.Request) {
	if h.tts == nil {
		writeError(w, http.StatusServiceUnavailable, "Voice feedback not configured: ELEVENLABS_API_KEY missing")
		return
	}

	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, `Request body must include "text".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), synthesisTimeout)
	defer cancel()

	result, err := h.tts.Synthesize(ctx, tts.SynthesisRequest{Text: req.Text})
	if err != nil {
		var ttsErr *tts.Error
		if errors.As(err, &ttsErr) {
			writeError(w, ttsErr.StatusCode, ttsErr.Message)
			return
		}
		status := upstreamStatus(err)
		if status == http.StatusGatewayTimeout {
			writeError(w, status, "Voice generation timed out. Please try again.")
			return
		}
		writeError(w, status, "Voice generation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"audio": base64.StdEncoding.EncodeToString(result.Audio),
	})
}

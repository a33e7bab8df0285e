package handlers

import (
	"errors"
	"net/http"

	"github.com/clearvoice/coach-api/internal/speech/realtime"
)

type SessionHandler struct {
	client *realtime.Client // nil when no OpenAI key is configured
}

func NewSessionHandler(client *realtime.Client) *SessionHandler {
	return &SessionHandler{client: client}
}

// Create mints an ephemeral realtime session token for the browser's own
// voice connection.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "OPENAI_API_KEY not configured")
		return
	}

	session, err := h.client.CreateSession(r.Context())
	if err != nil {
		var rtErr *realtime.Error
		if errors.As(err, &rtErr) {
			writeJSON(w, rtErr.StatusCode, map[string]any{
				"error":   "OpenAI API failed",
				"status":  rtErr.StatusCode,
				"details": rtErr.Details,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, session)
}

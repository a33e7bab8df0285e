package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clearvoice/coach-api/internal/coaching"
)

type ConversationHandler struct {
	conv *coaching.Conversationalist // nil when conversation is unconfigured
}

func NewConversationHandler(conv *coaching.Conversationalist) *ConversationHandler {
	return &ConversationHandler{conv: conv}
}

type conversationRequest struct {
	Message             string                    `json:"message"`
	ConversationHistory []coaching.Turn           `json:"conversationHistory"`
	AnalysisContext     *coaching.AnalysisContext `json:"analysisContext,omitempty"`
}

type conversationResponse struct {
	Response            string          `json:"response"`
	ConversationHistory []coaching.Turn `json:"conversationHistory"`
}

// Converse exchanges one turn with the coach. History is client-held: it
// comes in with the request and goes back extended by the new user and
// assistant turns.
func (h *ConversationHandler) Converse(w http.ResponseWriter, r *http.Request) {
	if h.conv == nil {
		writeError(w, http.StatusServiceUnavailable, "Conversation not configured: OPENAI_API_KEY missing")
		return
	}

	var req conversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, `Request body must include "message" (string).`)
		return
	}

	reply, history, err := h.conv.Reply(r.Context(), req.Message, req.ConversationHistory, req.AnalysisContext)
	if err != nil {
		writeError(w, upstreamStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, conversationResponse{
		Response:            reply,
		ConversationHistory: history,
	})
}

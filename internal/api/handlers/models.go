package handlers

import (
	"net/http"

	"github.com/clearvoice/coach-api/internal/llm"
)

type ModelsHandler struct {
	gateway *llm.Gateway
}

func NewModelsHandler(gateway *llm.Gateway) *ModelsHandler {
	return &ModelsHandler{gateway: gateway}
}

// List reports the chat models reachable with the configured credentials.
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	models := h.gateway.ListModels()
	if models == nil {
		models = []llm.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": models})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/clearvoice/coach-api/internal/coaching"
	"github.com/clearvoice/coach-api/internal/speech/stt"
	"github.com/clearvoice/coach-api/internal/upload"
)

// TranscribeHandler accepts an uploaded recording and runs the transcription
// pipeline on it. With full_pipeline=true the transcript is chained through
// analysis and voice synthesis in the same request.
type TranscribeHandler struct {
	store    *upload.Store
	pipeline *coaching.Pipeline // nil when transcription is unconfigured
	minBytes int64
}

func NewTranscribeHandler(store *upload.Store, pipeline *coaching.Pipeline, minBytes int64) *TranscribeHandler {
	return &TranscribeHandler{store: store, pipeline: pipeline, minBytes: minBytes}
}

func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if h.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "Transcription not configured: OPENAI_API_KEY missing")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file uploaded")
		return
	}
	defer file.Close()

	saved, err := h.store.Save(file, header)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			writeError(w, http.StatusBadRequest, "Audio file too large (max 25MB)")
		case errors.Is(err, upload.ErrInvalidMedia):
			writeError(w, http.StatusBadRequest, "Unsupported media type: expected audio or video")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to store upload")
		}
		return
	}
	// The temp file is this request's only state; it goes away on every path.
	defer h.store.Remove(saved)

	if saved.Size < h.minBytes {
		writeError(w, http.StatusBadRequest, "Audio file too small - no data recorded")
		return
	}

	language := r.FormValue("language")
	if language == "" {
		language = "en"
	}

	opts := coaching.PipelineOptions{
		Language: language,
		Question: r.FormValue("question"),
	}
	if r.FormValue("full_pipeline") == "true" {
		opts.Analyze = true
		opts.Voice = true
	}

	result, err := h.pipeline.Run(r.Context(), saved.Path, opts)
	if err != nil {
		h.writeTranscribeError(w, err)
		return
	}

	if !opts.Analyze {
		writeJSON(w, http.StatusOK, map[string]any{
			"transcript": result.Transcript,
			"duration":   result.Duration,
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TranscribeHandler) writeTranscribeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, stt.ErrNoAudioData):
		writeError(w, http.StatusBadRequest, "Audio file too small - no data recorded")
	case errors.Is(err, stt.ErrTooLarge):
		writeError(w, http.StatusBadRequest, "Audio file too large (max 25MB)")
	case errors.Is(err, stt.ErrNoSpeechDetected):
		writeError(w, http.StatusBadRequest, "No speech detected in audio")
	default:
		status := upstreamStatus(err)
		if status == http.StatusGatewayTimeout {
			writeError(w, status, "Transcription timed out. Please try again.")
			return
		}
		writeError(w, status, "Transcription failed: "+err.Error())
	}
}

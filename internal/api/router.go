package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clearvoice/coach-api/internal/api/handlers"
	"github.com/clearvoice/coach-api/internal/api/middleware"
	"github.com/clearvoice/coach-api/internal/coaching"
	"github.com/clearvoice/coach-api/internal/config"
	"github.com/clearvoice/coach-api/internal/llm"
	"github.com/clearvoice/coach-api/internal/speech/realtime"
	"github.com/clearvoice/coach-api/internal/speech/stt"
	"github.com/clearvoice/coach-api/internal/speech/tts"
	"github.com/clearvoice/coach-api/internal/upload"
)

type Router struct {
	mux   *chi.Mux
	cfg   *config.Config
	llmGW *llm.Gateway
}

func NewRouter(cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		cfg:   cfg,
		llmGW: llm.NewGateway(cfg.LLM),
	}
}

// Setup wires providers and routes. A missing credential leaves its
// endpoints registered but answering 503; nothing else degrades.
func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(10, 30)
	r.Use(rl.Limit)

	store, err := upload.NewStore(rt.cfg.Upload.Dir, rt.cfg.Upload.MaxBytes)
	if err != nil {
		return nil, err
	}

	var sttProvider stt.Provider
	if rt.cfg.STT.OpenAIKey != "" {
		sttProvider = stt.NewWhisper(stt.WhisperConfig{
			APIKey:  rt.cfg.STT.OpenAIKey,
			BaseURL: rt.cfg.STT.BaseURL,
			Model:   rt.cfg.STT.Model,
		})
	}

	ttsProvider := rt.ttsProvider()

	var analyzer *coaching.Analyzer
	if rt.llmGW.Has(rt.cfg.LLM.AnalysisProvider) {
		analyzer = coaching.NewAnalyzer(rt.llmGW, rt.cfg.LLM)
	}

	var pipeline *coaching.Pipeline
	if sttProvider != nil {
		pipeline = coaching.NewPipeline(sttProvider, ttsProvider, analyzer)
	}

	var conv *coaching.Conversationalist
	if rt.llmGW.Has("openai") {
		conv = coaching.NewConversationalist(rt.llmGW, rt.cfg.LLM.ConversationModel)
	}

	var rtClient *realtime.Client
	if rt.cfg.LLM.OpenAIKey != "" {
		rtClient = realtime.NewClient(realtime.Config{APIKey: rt.cfg.LLM.OpenAIKey})
	}

	health := handlers.NewHealthHandler()
	r.Get("/health", health.Health)

	transcribeH := handlers.NewTranscribeHandler(store, pipeline, rt.cfg.Upload.MinBytes)
	analyzeH := handlers.NewAnalyzeHandler(analyzer)
	voiceH := handlers.NewVoiceHandler(ttsProvider)
	conversationH := handlers.NewConversationHandler(conv)
	sessionH := handlers.NewSessionHandler(rtClient)
	modelsH := handlers.NewModelsHandler(rt.llmGW)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", modelsH.List)
		r.Post("/transcribe", transcribeH.Transcribe)
		r.Post("/analyze", analyzeH.Analyze)
		r.Post("/voice-feedback", voiceH.Speak)
		r.Post("/conversation", conversationH.Converse)
		r.Post("/session", sessionH.Create)
	})

	if rt.cfg.Server.StaticDir != "" {
		r.Handle("/*", spaHandler(rt.cfg.Server.StaticDir))
	}

	return r, nil
}

func (rt *Router) ttsProvider() tts.Provider {
	switch rt.cfg.TTS.Backend {
	case "openai":
		if rt.cfg.TTS.OpenAIKey == "" {
			return nil
		}
		return tts.NewOpenAI(tts.OpenAIConfig{
			APIKey: rt.cfg.TTS.OpenAIKey,
			Model:  rt.cfg.TTS.OpenAIModel,
		})
	default:
		if rt.cfg.TTS.ElevenLabsKey == "" {
			return nil
		}
		return tts.NewElevenLabs(tts.ElevenLabsConfig{
			APIKey:  rt.cfg.TTS.ElevenLabsKey,
			VoiceID: rt.cfg.TTS.VoiceID,
			ModelID: rt.cfg.TTS.ModelID,
		})
	}
}

// spaHandler serves the built frontend, falling back to index.html for
// client-side routes.
func spaHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(strings.TrimPrefix(r.URL.Path, "/")))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
}

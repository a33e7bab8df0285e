package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server Server
	LLM    LLM
	STT    STT
	TTS    TTS
	Upload Upload
}

type Server struct {
	Host      string
	Port      int
	StaticDir string // optional: serve a built SPA from this directory
}

type LLM struct {
	OpenAIKey         string
	AnthropicKey      string
	OllamaURL         string
	AnalysisProvider  string // provider used for coaching analysis
	AnalysisModel     string
	AnalysisMode      string // "coaching" or "scored"
	ConversationModel string
}

type STT struct {
	OpenAIKey string
	BaseURL   string
	Model     string
}

type TTS struct {
	Backend       string // "elevenlabs" or "openai"
	ElevenLabsKey string
	VoiceID       string
	ModelID       string
	OpenAIKey     string
	OpenAIModel   string
}

type Upload struct {
	Dir      string
	MaxBytes int64
	MinBytes int64
}

func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 3000)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	maxBytes, err := getEnvInt64("UPLOAD_MAX_BYTES", 25*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
	}

	minBytes, err := getEnvInt64("UPLOAD_MIN_BYTES", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MIN_BYTES: %w", err)
	}

	cfg := &Config{
		Server: Server{
			Host:      getEnv("SERVER_HOST", "0.0.0.0"),
			Port:      port,
			StaticDir: getEnv("STATIC_DIR", ""),
		},
		LLM: LLM{
			OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
			AnthropicKey:      os.Getenv("ANTHROPIC_API_KEY"),
			OllamaURL:         getEnv("OLLAMA_URL", ""),
			AnalysisProvider:  getEnv("ANALYSIS_PROVIDER", "anthropic"),
			AnalysisModel:     getEnv("ANALYSIS_MODEL", "claude-sonnet-4-20250514"),
			AnalysisMode:      getEnv("ANALYSIS_MODE", "coaching"),
			ConversationModel: getEnv("CONVERSATION_MODEL", "gpt-4o"),
		},
		STT: STT{
			OpenAIKey: os.Getenv("OPENAI_API_KEY"),
			BaseURL:   getEnv("STT_OPENAI_BASE_URL", ""),
			Model:     getEnv("STT_MODEL", "whisper-1"),
		},
		TTS: TTS{
			Backend:       getEnv("TTS_BACKEND", "elevenlabs"),
			ElevenLabsKey: os.Getenv("ELEVENLABS_API_KEY"),
			VoiceID:       getEnv("ELEVENLABS_VOICE_ID", ""),
			ModelID:       getEnv("ELEVENLABS_MODEL_ID", ""),
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnv("TTS_OPENAI_MODEL", ""),
		},
		Upload: Upload{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: maxBytes,
			MinBytes: minBytes,
		},
	}

	if cfg.LLM.AnalysisMode != "coaching" && cfg.LLM.AnalysisMode != "scored" {
		return nil, fmt.Errorf("invalid ANALYSIS_MODE %q: must be \"coaching\" or \"scored\"", cfg.LLM.AnalysisMode)
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

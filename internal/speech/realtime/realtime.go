package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client mints ephemeral OpenAI Realtime sessions so the browser can open its
// own voice connection without ever seeing the server's API key.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	voice      string
	httpClient *http.Client
}

type Config struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "gpt-4o-realtime-preview"
	Voice   string // default: "verse"
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-realtime-preview"
	}
	if cfg.Voice == "" {
		cfg.Voice = "verse"
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		voice:   cfg.Voice,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Session is the subset of the provider response the client needs.
type Session struct {
	ClientSecret json.RawMessage `json:"client_secret"`
	SessionID    string          `json:"session_id"`
	ExpiresAt    int64           `json:"expires_at"`
	URL          string          `json:"url,omitempty"`
}

// Error carries the provider status and body through to the handler.
type Error struct {
	StatusCode int
	Details    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("realtime session failed (status %d): %s", e.StatusCode, e.Details)
}

func (c *Client) CreateSession(ctx context.Context) (*Session, error) {
	body, _ := json.Marshal(map[string]string{
		"model": c.model,
		"voice": c.voice,
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/realtime/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{StatusCode: resp.StatusCode, Details: string(respBody)}
	}

	var raw struct {
		ID           string          `json:"id"`
		ClientSecret json.RawMessage `json:"client_secret"`
		ExpiresAt    int64           `json:"expires_at"`
		URL          string          `json:"url"`
	}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	return &Session{
		ClientSecret: raw.ClientSecret,
		SessionID:    raw.ID,
		ExpiresAt:    raw.ExpiresAt,
		URL:          raw.URL,
	}, nil
}

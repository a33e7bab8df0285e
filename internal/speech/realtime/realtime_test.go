package realtime

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/realtime/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "gpt-4o-realtime-preview", req["model"])
		assert.Equal(t, "verse", req["voice"])

		w.Write([]byte(`{
		  "id": "sess_123",
		  "client_secret": {"value": "eph_abc", "expires_at": 1700000060},
		  "expires_at": 1700000060
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})

	session, err := c.CreateSession(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sess_123", session.SessionID)
	assert.Equal(t, int64(1700000060), session.ExpiresAt)
	assert.JSONEq(t, `{"value": "eph_abc", "expires_at": 1700000060}`, string(session.ClientSecret))
}

func TestCreateSessionErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "bad", BaseURL: srv.URL})

	_, err := c.CreateSession(context.Background())
	var rtErr *Error
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, http.StatusUnauthorized, rtErr.StatusCode)
	assert.Contains(t, rtErr.Details, "invalid key")
}

func TestCreateSessionTrimsKeyWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id": "sess_1"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "  sk-test\n", BaseURL: srv.URL})

	_, err := c.CreateSession(context.Background())
	require.NoError(t, err)
}

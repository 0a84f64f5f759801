package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg.BaseURL = server.URL
	return NewClient(cfg)
}

func TestClient_Chat(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.1:8b","message":{"role":"assistant","content":"Sounds good."},"done":true}`))
	})

	reply, err := client.Chat(context.Background(), []ChatMessage{
		{Role: "user", Content: "Plan a todo app"},
		{Role: "assistant", Content: "Who is it for?"},
		{Role: "user", Content: "Students"},
	})
	require.NoError(t, err)
	require.Equal(t, "Sounds good.", reply)

	require.Equal(t, "llama3.1:8b", got["model"])
	require.Equal(t, false, got["stream"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 3)
	require.Equal(t, map[string]any{"role": "user", "content": "Students"}, messages[2])
	options := got["options"].(map[string]any)
	require.InDelta(t, 0.7, options["temperature"], 1e-9)
	require.Equal(t, float64(4096), options["num_predict"])
}

func TestClient_ChatOmitsNumPredict(t *testing.T) {
	var got map[string]any
	cfg := Config{Model: "mistral", Temperature: 0.2}
	client := newTestClient(t, cfg, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"done":true}`))
	})

	_, err := client.Chat(context.Background(), nil)
	require.NoError(t, err)

	require.Equal(t, "mistral", got["model"])
	require.Equal(t, []any{}, got["messages"])
	options := got["options"].(map[string]any)
	_, present := options["num_predict"]
	require.False(t, present)
}

func TestClient_ChatAPIError(t *testing.T) {
	client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	require.True(t, IsKind(err, KindAPI))
	require.Contains(t, err.Error(), "500")

	var oErr *Error
	require.ErrorAs(t, err, &oErr)
	require.Equal(t, http.StatusInternalServerError, oErr.StatusCode)
}

func TestClient_ChatParseError(t *testing.T) {
	tests := map[string]string{
		"not json":        `<html>oops</html>`,
		"missing message": `{"done":true}`,
		"missing done":    `{"message":{"role":"assistant","content":"hi"}}`,
		"empty message":   `{"message":{},"done":true}`,
		"missing role":    `{"message":{"content":"x"},"done":true}`,
		"missing content": `{"message":{"role":"assistant"},"done":true}`,
		"wrong types":     `{"message":{"role":"assistant","content":7},"done":true}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			reply, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
			require.Error(t, err)
			require.True(t, IsKind(err, KindParse))
			require.Empty(t, reply)
		})
	}
}

func TestClient_ChatEmptyContent(t *testing.T) {
	client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":""},"done":true}`))
	})

	reply, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	require.Equal(t, "", reply)
}

func TestClient_ChatTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Config{BaseURL: url})
	_, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	require.True(t, IsKind(err, KindTransport))
	require.Contains(t, err.Error(), "failed to send request")
}

func TestClient_CheckConnection(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/api/tags", r.URL.Path)
			_, _ = w.Write([]byte(`{"models":[]}`))
		})
		ok, err := client.CheckConnection(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("non-success status", func(t *testing.T) {
		client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		ok, err := client.CheckConnection(context.Background())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("error body", func(t *testing.T) {
		client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		})
		ok, err := client.CheckConnection(context.Background())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("success with unreadable body", func(t *testing.T) {
		client := newTestClient(t, DefaultConfig(), func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`Ollama is running`))
		})
		ok, err := client.CheckConnection(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		ok, err := NewClient(Config{BaseURL: url}).CheckConnection(context.Background())
		require.Error(t, err)
		require.True(t, IsKind(err, KindTransport))
		require.False(t, ok)
	})
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:11434/"})
	require.Equal(t, "http://localhost:11434", client.Config().BaseURL)
	require.Equal(t, DefaultModel, client.Config().Model)
}

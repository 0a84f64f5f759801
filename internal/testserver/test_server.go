// Package testserver assembles the full backend against an in-memory
// database and a fake Ollama server for tests.
package testserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/specmaker/internal/command"
	"github.com/rpggio/specmaker/internal/domain/conversation"
	"github.com/rpggio/specmaker/internal/domain/project"
	"github.com/rpggio/specmaker/internal/mcp"
	"github.com/rpggio/specmaker/internal/ollama"
	"github.com/rpggio/specmaker/internal/sqlite"
	"github.com/rpggio/specmaker/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Token    string
	Commands *command.Handler
	Ollama   *FakeOllama
}

func New(t *testing.T, token string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	fake := NewFakeOllama(t)
	client := ollama.NewClient(ollama.Config{BaseURL: fake.URL(), Model: ollama.DefaultModel, Temperature: 0.7})

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), nil)
	conversationSvc := conversation.NewService(
		sqlite.NewConversationRepository(db),
		sqlite.NewMessageRepository(db),
		client,
		nil,
	)
	commands := command.NewHandler(projectSvc, conversationSvc, client, nil)

	mcpServer := mcp.NewServer(mcp.Config{Commands: commands})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true, JSONResponse: true},
	)

	opts := transport.Options{MCP: mcpHandler}
	if token != "" {
		opts.Auth = transport.AuthMiddleware(transport.StaticToken(token))
	}
	server := httptest.NewServer(transport.NewServer(commands, opts))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Token:    token,
		Commands: commands,
		Ollama:   fake,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// CountMessages returns the number of stored messages for a conversation.
func (ts *TestServer) CountMessages(t *testing.T, conversationID string) int {
	t.Helper()
	var n int
	err := ts.DB.QueryRow(`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversationID).Scan(&n)
	require.NoError(t, err)
	return n
}

// FakeOllama mimics /api/chat and /api/tags. It replies with a fixed
// assistant message or a fixed error status.
type FakeOllama struct {
	server *httptest.Server

	mu       sync.Mutex
	reply    string
	status   int
	requests []ChatRequest
}

// ChatRequest is the body received on /api/chat.
type ChatRequest struct {
	Model    string               `json:"model"`
	Messages []ollama.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Options  map[string]any       `json:"options"`
}

func NewFakeOllama(t *testing.T) *FakeOllama {
	t.Helper()
	f := &FakeOllama{reply: "ok", status: http.StatusOK}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeOllama) URL() string {
	return f.server.URL
}

// Reply sets the assistant content returned by /api/chat.
func (f *FakeOllama) Reply(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = content
}

// Status sets the HTTP status returned by both endpoints.
func (f *FakeOllama) Status(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = code
}

// Requests returns the chat requests received so far.
func (f *FakeOllama) Requests() []ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChatRequest(nil), f.requests...)
}

func (f *FakeOllama) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	status, reply := f.status, f.reply
	f.mu.Unlock()

	switch r.URL.Path {
	case "/api/tags":
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"models":[]}`))
	case "/api/chat":
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   req.Model,
			"message": ollama.ChatMessage{Role: "assistant", Content: reply},
			"done":    true,
		})
	default:
		http.NotFound(w, r)
	}
}

package functional_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/rpggio/specmaker/internal/testserver"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	IsError bool `json:"isError"`
}

func mcpCall(t *testing.T, ts *testserver.TestServer, method string, params any) rpcResponse {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		payload["params"] = params
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/mcp", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	if ts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(bodyBytes))
	}

	var result rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

func initialize(t *testing.T, ts *testserver.TestServer) {
	t.Helper()

	resp := mcpCall(t, ts, "initialize", map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "1.0.0",
		},
	})
	require.Nil(t, resp.Error, "Initialize failed: %v", resp.Error)
}

func invokeTool(t *testing.T, ts *testserver.TestServer, name string, args any) toolResult {
	t.Helper()

	params := map[string]any{"name": name}
	if args != nil {
		params["arguments"] = args
	}

	resp := mcpCall(t, ts, "tools/call", params)
	require.Nil(t, resp.Error, "RPC error: %v", resp.Error)

	var result toolResult
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.NotEmpty(t, result.Content)
	return result
}

// callTool invokes a tool that must succeed and returns its JSON payload.
func callTool(t *testing.T, ts *testserver.TestServer, name string, args any) json.RawMessage {
	t.Helper()
	result := invokeTool(t, ts, name, args)
	require.False(t, result.IsError, "Tool error: %s", result.Content[0].Text)
	return json.RawMessage(result.Content[0].Text)
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "secret")

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/mcp", bytes.NewBufferString(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFunctional_ProjectTools(t *testing.T) {
	ts := testserver.New(t, "secret")
	initialize(t, ts)

	var created struct {
		ID     string  `json:"id"`
		Name   string  `json:"name"`
		Status string  `json:"status"`
		Industry *string `json:"industry"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, ts, "create_project", map[string]any{
		"name":        "Recipe planner",
		"description": "Weekly meal plans",
	}), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "ideation", created.Status)
	require.Nil(t, created.Industry)

	var list []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, ts, "get_projects", nil), &list))
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)

	callTool(t, ts, "delete_project", map[string]any{"project_id": created.ID})

	missing := invokeTool(t, ts, "get_project", map[string]any{"project_id": created.ID})
	require.True(t, missing.IsError)
	require.Contains(t, missing.Content[0].Text, "project not found")
}

func TestFunctional_ConversationTools(t *testing.T) {
	ts := testserver.New(t, "")
	initialize(t, ts)
	ts.Ollama.Reply("Tell me about your audience.")

	var conv struct {
		ID    string `json:"id"`
		Phase string `json:"phase"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, ts, "create_conversation", map[string]any{"project_id": "p1"}), &conv))
	require.Equal(t, "initial_analysis", conv.Phase)

	var reply struct {
		Role     string  `json:"role"`
		Content  string  `json:"content"`
		Metadata *string `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(callTool(t, ts, "send_message", map[string]any{
		"conversation_id": conv.ID,
		"role":            "user",
		"content":         "A budgeting app",
	}), &reply))
	require.Equal(t, "assistant", reply.Role)
	require.Equal(t, "Tell me about your audience.", reply.Content)
	require.Nil(t, reply.Metadata)
	require.Equal(t, 2, ts.CountMessages(t, conv.ID))

	var connected bool
	require.NoError(t, json.Unmarshal(callTool(t, ts, "check_ollama_connection", nil), &connected))
	require.True(t, connected)
}

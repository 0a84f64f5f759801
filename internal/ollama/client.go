// Package ollama is a minimal client for the chat and model-listing
// endpoints of a local Ollama server. Wire types and the model listing
// come from github.com/ollama/ollama/api; the chat call is issued directly
// so that status and reply shape can be checked strictly.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "llama3.1:8b"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096
)

// Config holds the fixed generation settings sent with every request.
// MaxTokens of zero leaves num_predict unset.
type Config struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

// ChatMessage is one turn of the history sent to the server.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse mirrors the reply body. Pointer fields distinguish a
// missing key from its zero value.
type chatResponse struct {
	Message *struct {
		Role    *string `json:"role"`
		Content *string `json:"content"`
	} `json:"message"`
	Done *bool `json:"done"`
}

// Client talks to an Ollama server. It holds no per-call state and is safe
// for concurrent use.
type Client struct {
	httpClient *http.Client
	api        *api.Client
	apiErr     error
	config     Config
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client. Empty config fields fall back to defaults.
func NewClient(cfg Config, opts ...Option) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}

	c := &Client{httpClient: &http.Client{}, config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		c.apiErr = err
	} else {
		c.api = api.NewClient(base, c.httpClient)
	}
	return c
}

// Config returns the client's settings.
func (c *Client) Config() Config {
	return c.config
}

// Chat sends the history in one non-streaming request and returns the
// content of the reply message.
func (c *Client) Chat(ctx context.Context, history []ChatMessage) (string, error) {
	messages := make([]api.Message, 0, len(history))
	for _, msg := range history {
		messages = append(messages, api.Message{Role: msg.Role, Content: msg.Content})
	}

	stream := false
	options := map[string]any{"temperature": c.config.Temperature}
	if c.config.MaxTokens > 0 {
		options["num_predict"] = c.config.MaxTokens
	}

	payload, err := json.Marshal(&api.ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   &stream,
		Options:  options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError("failed to send request", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", apiError(resp.StatusCode, resp.Status)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", parseError(err)
	}
	switch {
	case out.Message == nil:
		return "", parseError(errors.New("missing message field"))
	case out.Message.Role == nil:
		return "", parseError(errors.New("missing message.role field"))
	case out.Message.Content == nil:
		return "", parseError(errors.New("missing message.content field"))
	case out.Done == nil:
		return "", parseError(errors.New("missing done field"))
	}

	return *out.Message.Content, nil
}

// CheckConnection lists the installed models. A non-success status yields
// false with no error; an unreachable server yields an error.
func (c *Client) CheckConnection(ctx context.Context) (bool, error) {
	if c.api == nil {
		return false, transportError("failed to connect to ollama", c.apiErr)
	}

	_, err := c.api.List(ctx)
	if err == nil {
		return true, nil
	}

	var statusErr api.StatusError
	var urlErr *url.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &statusErr):
		return false, nil
	case errors.As(err, &urlErr):
		return false, transportError("failed to connect to ollama", err)
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		// The status was a success; only the model list was unreadable.
		return true, nil
	default:
		return false, nil
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

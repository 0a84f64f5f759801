package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/specmaker/internal/command"
)

// CommandHandler handles command dispatch.
type CommandHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// Options configures the HTTP router. Nil fields are skipped.
type Options struct {
	// Auth guards /rpc and /mcp.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler CommandHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler CommandHandler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{handler: handler, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Post("/rpc", srv.handleRPC)
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
			r.Handle("/mcp/*", opts.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		code := requestErrorCode(err)
		message := "invalid request"
		if code == ErrParseCode {
			message = "parse error"
		}
		WriteError(w, nil, code, message, nil)
		return
	}

	start := time.Now()
	result, err := s.handler.Handle(r.Context(), req.Method, req.Params)
	s.logger.Debug("command handled",
		"method", req.Method,
		"request_id", middleware.GetReqID(r.Context()),
		"duration", time.Since(start),
		"ok", err == nil,
	)
	if err != nil {
		WriteError(w, req.ID, errorCode(err), err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, command.ErrUnknownMethod):
		return ErrMethodNotFound
	case errors.Is(err, command.ErrInvalidParams):
		return ErrInvalidParams
	default:
		return ErrInternal
	}
}

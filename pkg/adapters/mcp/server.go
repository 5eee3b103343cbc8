package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/internal/logging"
	"github.com/aretw0/mathpad/pkg/domain"
	"github.com/aretw0/mathpad/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const sessionURIPrefix = "mathpad://sessions/"

// Server wraps a mathpad editor and exposes it as an MCP Server.
type Server struct {
	editor    ports.Editor
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the logger used for rejected tool calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(editor ports.Editor, opts ...Option) *Server {
	s := &Server{
		editor:    editor,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("mathpad-mcp", strings.TrimSpace(mathpad.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionArg := mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to edit"))

	// TOOL: start_session
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Open an editing session, creating it when it does not exist. Omit session_id to generate one."),
		mcp.WithString("session_id", mcp.Description("Session ID (optional)")),
		mcp.WithOutputSchema[domain.Outcome](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: type_text
	s.mcpServer.AddTool(mcp.NewTool("type_text",
		mcp.WithDescription("Type characters one key at a time. Space and tab act as gestures (numerator to denominator, leave a structure); a newline presses enter, which evaluates in normal mode."),
		sessionArg,
		mcp.WithString("text", mcp.Required(), mcp.Description("Characters to type")),
		mcp.WithOutputSchema[domain.Outcome](),
	), mcp.NewStructuredToolHandler(s.handleType))

	// TOOL: send_input
	s.mcpServer.AddTool(mcp.NewTool("send_input",
		mcp.WithDescription("Send one input event: type, key, paste, symbol, function, snippet, evaluate or reset."),
		sessionArg,
		mcp.WithString("type", mcp.Required(), mcp.Description("Event type"),
			mcp.Enum("type", "key", "paste", "symbol", "function", "snippet", "evaluate", "reset")),
		mcp.WithString("key", mcp.Description("Key name (backspace, enter, tab, space, escape, left, right) or a single character")),
		mcp.WithString("text", mcp.Description("Text to type or paste")),
		mcp.WithString("value", mcp.Description("Symbol (sqrt, abs, power, fraction), function name or snippet ID")),
		mcp.WithOutputSchema[domain.Outcome](),
	), mcp.NewStructuredToolHandler(s.handleInput))

	// TOOL: evaluate
	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate the session's linear text."),
		sessionArg,
		mcp.WithOutputSchema[domain.Outcome](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: get_snapshot
	s.mcpServer.AddTool(mcp.NewTool("get_snapshot",
		mcp.WithDescription("Get the expression tree, mode and linear text of a session."),
		sessionArg,
		mcp.WithOutputSchema[domain.Snapshot](),
	), mcp.NewStructuredToolHandler(s.handleSnapshot))

	// TOOL: delete_session
	s.mcpServer.AddTool(mcp.NewTool("delete_session",
		mcp.WithDescription("Delete a session."),
		sessionArg,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		if err := s.editor.Delete(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText("deleted " + id), nil
	})

	// TOOL: list_snippets
	s.mcpServer.AddTool(mcp.NewTool("list_snippets",
		mcp.WithDescription("List the insert palette (snippet IDs usable with send_input type=snippet)."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snippets, err := s.editor.Snippets(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list snippets failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(snippets)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Outcome, error) {
	id, _ := args["session_id"].(string)
	snap, err := s.editor.Start(ctx, id)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("start failed: %w", err)
	}
	return domain.Outcome{Snapshot: snap}, nil
}

func (s *Server) handleType(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Outcome, error) {
	id, _ := args["session_id"].(string)
	text, _ := args["text"].(string)
	if text == "" {
		return domain.Outcome{}, fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	return s.apply(ctx, id, KeyEvents(text)...)
}

func (s *Server) handleInput(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Outcome, error) {
	id, _ := args["session_id"].(string)
	ev := domain.InputEvent{}
	if v, ok := args["type"].(string); ok {
		ev.Type = domain.InputType(v)
	}
	ev.Key, _ = args["key"].(string)
	ev.Text, _ = args["text"].(string)
	ev.Value, _ = args["value"].(string)
	return s.apply(ctx, id, ev)
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Outcome, error) {
	id, _ := args["session_id"].(string)
	return s.apply(ctx, id, domain.InputEvent{Type: domain.InputEvaluate})
}

func (s *Server) handleSnapshot(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Snapshot, error) {
	id, _ := args["session_id"].(string)
	snap, err := s.editor.Snapshot(ctx, id)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("snapshot failed: %w", err)
	}
	return snap, nil
}

// apply runs events in order against an existing session and returns the
// last outcome. The first failing event stops the batch.
func (s *Server) apply(ctx context.Context, id string, events ...domain.InputEvent) (domain.Outcome, error) {
	if _, err := s.editor.Snapshot(ctx, id); err != nil {
		return domain.Outcome{}, fmt.Errorf("session %q: %w", id, err)
	}

	var out domain.Outcome
	for _, ev := range events {
		var err error
		out, err = s.editor.Apply(ctx, id, ev)
		if err != nil {
			s.logger.Warn("MCP: Input rejected", "session_id", id, "type", ev.Type, "err", err)
			return domain.Outcome{}, fmt.Errorf("%s failed: %w", ev.Type, err)
		}
	}
	return out, nil
}

// KeyEvents turns typed text into one key event per character.
// Newlines press enter.
func KeyEvents(text string) []domain.InputEvent {
	events := make([]domain.InputEvent, 0, len(text))
	for _, r := range text {
		key := string(r)
		switch r {
		case '\n', '\r':
			key = string(domain.KeyEnter)
		}
		events = append(events, domain.InputEvent{Type: domain.InputKey, Key: key})
	}
	return events
}

func (s *Server) registerResources() {
	// EXPOSE: mathpad://sessions
	s.mcpServer.AddResource(mcp.NewResource("mathpad://sessions", "Stored Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.editor.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "mathpad://sessions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: mathpad://sessions/{id}
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(sessionURIPrefix+"{id}", "Session Snapshot",
		mcp.WithTemplateMIMEType("application/json"),
	), s.readSession)
}

func (s *Server) readSession(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	id := strings.TrimPrefix(uri, sessionURIPrefix)
	snap, err := s.editor.Snapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %q: %w", id, err)
	}
	jsonBytes, _ := json.Marshal(snap)

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

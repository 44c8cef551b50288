package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/internal/sanitize"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateResponse is the result of every tool that touches a session. It has
// the same shape as the HTTP state endpoint.
type StateResponse struct {
	domain.Snapshot
	Version int `json:"version" jsonschema_description:"Version of the session draft"`
}

// FormsResponse lists the forms an agent can fill.
type FormsResponse struct {
	Forms []string `json:"forms" jsonschema_description:"Form ids known to the loader"`
}

// Server exposes forms and their session drafts as MCP tools.
type Server struct {
	loader    ports.ContentLoader
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. It must not write to stdout when serving
// over stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates an MCP server for the forms of loader.
func NewServer(loader ports.ContentLoader, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		loader:    loader,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("formwork-mcp", strings.TrimSpace(formwork.Version)),
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

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
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
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_forms",
		mcp.WithDescription("List the ids of the forms that can be filled."),
		mcp.WithOutputSchema[FormsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListForms))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the value and the state of every node of a form session. Starts the session from the form defaults if needed."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("Form id")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("patch_values",
		mcp.WithDescription("Patch values into a form session and save the result as its draft. Keys of nodes that are not attached are ignored."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("Form id")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("values", mcp.Required(), mcp.Description("JSON object of values, nested for groups")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handlePatchValues))

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Run every validator of a form session, async ones included, and return the resulting state."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("Form id")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	s.mcpServer.AddTool(mcp.NewTool("delete_draft",
		mcp.WithDescription("Discard the draft of a form session."),
		mcp.WithString("form_id", mcp.Required(), mcp.Description("Form id")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		formID, sessionID, err := sessionArgs(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.sessions.Delete(ctx, formID, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("delete failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Removed draft '%s/%s'", formID, sessionID)), nil
	})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("formwork://forms", "Form definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.loader.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list forms: %w", err)
		}
		forms := make(map[string][]domain.Content, len(ids))
		for _, id := range ids {
			content, err := s.loader.Load(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load form %s: %w", id, err)
			}
			forms[id] = content
		}
		data, err := json.Marshal(forms)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "formwork://forms",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}

func (s *Server) handleListForms(ctx context.Context, _ mcp.CallToolRequest, _ map[string]interface{}) (FormsResponse, error) {
	ids, err := s.loader.List(ctx)
	if err != nil {
		return FormsResponse{}, fmt.Errorf("list failed: %w", err)
	}
	return FormsResponse{Forms: ids}, nil
}

func (s *Server) handleGetState(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	formID, sessionID, err := sessionArgs(args)
	if err != nil {
		return StateResponse{}, err
	}
	f, draft, err := s.open(ctx, formID, sessionID)
	if err != nil {
		return StateResponse{}, err
	}
	defer f.Close()
	return StateResponse{Snapshot: f.Snapshot(), Version: draft.Version}, nil
}

func (s *Server) handlePatchValues(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	formID, sessionID, err := sessionArgs(args)
	if err != nil {
		return StateResponse{}, err
	}
	raw, _ := args["values"].(string)
	var patch map[string]any
	if err := json.Unmarshal([]byte(raw), &patch); err != nil {
		return StateResponse{}, fmt.Errorf("values must be a JSON object: %w", err)
	}
	patch, err = sanitize.Values(patch)
	if err != nil {
		s.logger.Warn("MCP patch_values: input rejected", "err", err)
		return StateResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	f, err := formwork.Load(ctx, s.loader, formID, formwork.WithLogger(s.logger))
	if err != nil {
		return StateResponse{}, err
	}
	defer f.Close()

	draft, err := s.sessions.Update(ctx, formID, sessionID, f.RawValue(), func(d *domain.Draft) error {
		f.Restore(d.Values)
		f.Restore(patch)
		d.Values = f.RawValue()
		return nil
	})
	if err != nil {
		return StateResponse{}, fmt.Errorf("save failed: %w", err)
	}
	if _, err := f.Validate(ctx); err != nil {
		return StateResponse{}, err
	}
	return StateResponse{Snapshot: f.Snapshot(), Version: draft.Version}, nil
}

func (s *Server) handleValidate(ctx context.Context, _ mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	formID, sessionID, err := sessionArgs(args)
	if err != nil {
		return StateResponse{}, err
	}
	f, draft, err := s.open(ctx, formID, sessionID)
	if err != nil {
		return StateResponse{}, err
	}
	defer f.Close()
	if _, err := f.Validate(ctx); err != nil {
		return StateResponse{}, err
	}
	return StateResponse{Snapshot: f.Snapshot(), Version: draft.Version}, nil
}

// open builds a form and fills it with the session's draft, starting one
// from the form's defaults if needed.
func (s *Server) open(ctx context.Context, formID, sessionID string) (*formwork.Form, *domain.Draft, error) {
	f, err := formwork.Load(ctx, s.loader, formID, formwork.WithLogger(s.logger))
	if err != nil {
		return nil, nil, err
	}
	draft, err := s.sessions.LoadOrStart(ctx, formID, sessionID, f.RawValue())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	f.Restore(draft.Values)
	return f, draft, nil
}

func sessionArgs(args map[string]interface{}) (formID, sessionID string, err error) {
	formID, _ = args["form_id"].(string)
	sessionID, _ = args["session_id"].(string)
	if formID == "" || sessionID == "" {
		return "", "", errors.New("form_id and session_id are required")
	}
	return formID, sessionID, nil
}

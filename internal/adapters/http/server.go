package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/internal/sanitize"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/observability"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/session"
	"github.com/go-chi/chi/v5"
)

// Server serves forms and the drafts of their sessions.
type Server struct {
	Loader   ports.ContentLoader
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Streams  *StreamManager
	Logger   *slog.Logger

	formOptions []formwork.Option
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records form events and draft operations, and serves them
// on /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.Metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithFormOptions adds options to every form the server builds.
func WithFormOptions(opts ...formwork.Option) Option {
	return func(s *Server) { s.formOptions = append(s.formOptions, opts...) }
}

// NewServer creates a server for the forms of loader.
func NewServer(loader ports.ContentLoader, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Loader:   loader,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler for the forms of loader.
func NewHandler(loader ports.ContentLoader, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(loader, sessions, opts...).Routes()
}

// Routes mounts the server's endpoints on a new router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/forms", s.ListForms)
	r.Get("/forms/{form}/{session}", s.RenderForm)
	r.Delete("/forms/{form}/{session}", s.DeleteDraft)
	r.Get("/forms/{form}/{session}/state", s.GetState)
	r.Post("/forms/{form}/{session}/values", s.PostValues)
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics.Handler())
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "formwork-http",
		"version": formwork.Version,
	})
}

// ListForms handles GET /forms.
func (s *Server) ListForms(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Loader.List(r.Context())
	if err != nil {
		s.fail(w, "List failed", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// RenderForm handles GET /forms/{form}/{session}: the form as an HTML page,
// filled with the session's draft.
func (s *Server) RenderForm(w http.ResponseWriter, r *http.Request) {
	f, _, err := s.open(r.Context(), chi.URLParam(r, "form"), chi.URLParam(r, "session"))
	if err != nil {
		s.fail(w, "Render failed", err)
		return
	}
	defer f.Close()

	templ.Handler(page(f)).ServeHTTP(w, r)
}

// GetState handles GET /forms/{form}/{session}/state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	f, draft, err := s.open(r.Context(), chi.URLParam(r, "form"), chi.URLParam(r, "session"))
	if err != nil {
		s.fail(w, "State failed", err)
		return
	}
	defer f.Close()

	s.writeJSON(w, http.StatusOK, stateResponse{Snapshot: f.Snapshot(), Version: draft.Version})
}

// PostValues handles POST /forms/{form}/{session}/values. The body is a
// JSON object patched into the form; the resulting form value replaces the
// draft and the change is broadcast to the session's subscribers.
func (s *Server) PostValues(w http.ResponseWriter, r *http.Request) {
	formID, sessionID := chi.URLParam(r, "form"), chi.URLParam(r, "session")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PostValues: invalid request body", "err", err)
		return
	}
	patch, err := sanitize.Values(patch)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("PostValues: input rejected", "err", err)
		return
	}

	f, err := s.build(r.Context(), formID)
	if err != nil {
		s.fail(w, "PostValues failed", err)
		return
	}
	defer f.Close()

	var before *domain.Draft
	draft, err := s.Sessions.Update(r.Context(), formID, sessionID, f.RawValue(), func(d *domain.Draft) error {
		before = d.Clone()
		f.Restore(d.Values)
		f.Restore(patch)
		d.Values = f.RawValue()
		return nil
	})
	if err != nil {
		s.fail(w, "PostValues failed", err)
		return
	}
	if s.Metrics != nil {
		s.Metrics.DraftSaved()
	}

	start := time.Now()
	valid, err := f.Validate(r.Context())
	if err != nil {
		s.fail(w, "PostValues failed", err)
		return
	}
	if s.Metrics != nil {
		s.Metrics.ObserveValidation(time.Since(start), valid)
	}

	if diff := domain.Diff(before, draft); diff != nil {
		if data, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(streamKey(formID, sessionID), string(data))
		}
	}

	s.writeJSON(w, http.StatusOK, stateResponse{Snapshot: f.Snapshot(), Version: draft.Version})
}

// DeleteDraft handles DELETE /forms/{form}/{session}.
func (s *Server) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "form"), chi.URLParam(r, "session")); err != nil {
		s.fail(w, "DeleteDraft failed", err)
		return
	}
	if s.Metrics != nil {
		s.Metrics.DraftDeleted()
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubscribeEvents handles GET /events (SSE). With form and session query
// parameters it streams the draft diffs of that session, optionally only
// those touching the comma-separated keys in watch. Without them it streams
// the ids of forms whose content changed, when the loader can watch.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	formID, sessionID := r.URL.Query().Get("form"), r.URL.Query().Get("session")
	if sessionID == "" {
		watcher, ok := s.Loader.(ports.Watchable)
		if !ok {
			http.Error(w, "Loader does not support watching", http.StatusNotImplemented)
			return
		}
		events, err := watcher.Watch(r.Context())
		if err != nil {
			s.fail(w, "Watch failed", err)
			return
		}
		streamHeaders(w)
		fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
		flusher.Flush()
		for {
			select {
			case <-r.Context().Done():
				return
			case id, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: reload\ndata: %s\n\n", id)
				flusher.Flush()
			}
		}
	}

	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, key := range strings.Split(raw, ",") {
			watch = append(watch, strings.TrimSpace(key))
		}
	}

	ch, cancel := s.Streams.Subscribe(streamKey(formID, sessionID))
	defer cancel()

	streamHeaders(w)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.Logger.Info("SSE: subscribed", "form", formID, "session", sessionID)

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !touches(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func streamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// touches reports whether a serialized diff changes any of keys.
func touches(msg string, keys []string) bool {
	var diff domain.DraftDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, k := range keys {
		if _, ok := diff.Values[k]; ok {
			return true
		}
	}
	return false
}

func streamKey(formID, sessionID string) string {
	return formID + "/" + sessionID
}

type stateResponse struct {
	domain.Snapshot
	Version int `json:"version"`
}

// build creates a fresh form for formID.
func (s *Server) build(ctx context.Context, formID string) (*formwork.Form, error) {
	opts := []formwork.Option{formwork.WithLogger(s.Logger)}
	if s.Metrics != nil {
		opts = append(opts, formwork.WithLifecycleHooks(s.Metrics.Hooks()))
	}
	return formwork.Load(ctx, s.Loader, formID, append(opts, s.formOptions...)...)
}

// open builds a form and fills it with the session's draft, starting one
// from the form's defaults if needed.
func (s *Server) open(ctx context.Context, formID, sessionID string) (*formwork.Form, *domain.Draft, error) {
	f, err := s.build(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	draft, err := s.Sessions.LoadOrStart(ctx, formID, sessionID, f.RawValue())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	f.Restore(draft.Values)
	return f, draft, nil
}

func page(f *formwork.Form) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`+
			templ.EscapeString(f.ID())+`</title></head><body>`); err != nil {
			return err
		}
		if err := f.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrFormNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, fmt.Sprintf("%s: %v", msg, err), status)
	if status == http.StatusInternalServerError {
		s.Logger.Error(msg, "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

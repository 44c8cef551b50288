package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/formwork"
	"github.com/aretw0/formwork/internal/adapters/file"
	"github.com/aretw0/formwork/internal/sanitize"
	"github.com/aretw0/formwork/pkg/adapters/loam"
	"github.com/aretw0/formwork/pkg/adapters/redis"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/observability"
	"github.com/aretw0/formwork/pkg/persistence/middleware"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/session"
)

// Loader kinds accepted by Options.Loader.
const (
	LoaderAuto = "auto"
	LoaderFile = "file"
	LoaderLoam = "loam"
)

// Options carries the settings shared by every command.
type Options struct {
	Dir      string
	LogLevel string
	Loader   string

	// Draft persistence. Drafts go to Redis when RedisAddr is set and to
	// <Dir>/.formwork/drafts otherwise.
	RedisAddr  string
	EncryptKey string
	Mask       []string
}

// Logger returns the logger configured by LogLevel.
func (o Options) Logger() *slog.Logger {
	return createLogger(o.LogLevel)
}

// NewLoader picks the content loader for opts.Dir. In auto mode Loam is
// used when the directory holds Markdown documents.
func NewLoader(opts Options) (ports.ContentLoader, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	kind := opts.Loader
	if kind == "" || kind == LoaderAuto {
		kind = LoaderFile
		if hasMarkdown(dir) {
			kind = LoaderLoam
		}
	}

	switch kind {
	case LoaderFile:
		return file.NewLoader(dir), nil
	case LoaderLoam:
		return loam.Open(dir)
	default:
		return nil, fmt.Errorf("unknown loader %q", opts.Loader)
	}
}

// hasMarkdown checks if dir directly contains a Markdown file.
func hasMarkdown(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	return err == nil && len(matches) > 0
}

// Backend bundles the draft persistence a command works against.
type Backend struct {
	Store    ports.DraftStore
	Sessions *session.Manager
	close    func() error
}

// Close releases the backend's connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend builds the draft store described by opts, wrapped with the
// masking and encryption middlewares when configured.
func OpenBackend(opts Options, logger *slog.Logger) (*Backend, error) {
	var mws []middleware.Middleware
	if len(opts.Mask) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(opts.Mask))
	}
	if opts.EncryptKey != "" {
		key, err := parseKey(opts.EncryptKey)
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}

	sessionOpts := []session.Option{session.WithLogger(logger)}
	b := &Backend{}

	var store ports.DraftStore
	if opts.RedisAddr != "" {
		rs := redis.New(opts.RedisAddr, os.Getenv("FORMWORK_REDIS_PASSWORD"), 0)
		if err := rs.Client().Ping(context.Background()).Err(); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(rs.Client(), "formwork:")))
		store = rs
		b.close = rs.Close
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		store = file.NewStore(filepath.Join(dir, ".formwork", "drafts"))
	}

	b.Store = middleware.Chain(store, mws...)
	b.Sessions = session.NewManager(b.Store, sessionOpts...)
	return b, nil
}

// parseKey accepts a 32 byte key, raw or hex encoded.
func parseKey(s string) ([]byte, error) {
	if len(s) == 64 {
		if key, err := hex.DecodeString(s); err == nil {
			return key, nil
		}
	}
	if len(s) == 32 {
		return []byte(s), nil
	}
	return nil, errors.New("encryption key must be 32 bytes or 64 hex characters")
}

// formOptions returns the form options every command builds with.
func formOptions(logger *slog.Logger) []formwork.Option {
	return []formwork.Option{
		formwork.WithLogger(logger),
		formwork.WithLifecycleHooks(observability.LogHooks(logger)),
	}
}

// OpenForm loads formID and, when sessionID is set, restores the session's
// draft into it. A missing draft leaves the declared defaults.
func OpenForm(ctx context.Context, loader ports.ContentLoader, backend *Backend, formID, sessionID string, logger *slog.Logger) (*formwork.Form, error) {
	f, err := formwork.Load(ctx, loader, formID, formOptions(logger)...)
	if err != nil {
		return nil, err
	}
	if sessionID == "" || backend == nil {
		return f, nil
	}

	draft, err := backend.Sessions.Load(ctx, formID, sessionID)
	if errors.Is(err, domain.ErrDraftNotFound) {
		logger.Info("No draft for session, using defaults", "session_id", sessionID)
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	f.Restore(draft.Values)
	return f, nil
}

// ParseValues decodes repeated key=value flags into a form value. Dotted
// keys nest into groups. Strings are sanitized like HTTP input.
func ParseValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any)
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid value %q, expected key=value", pair)
		}
		parts := strings.Split(k, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = parseScalar(v)
	}
	return sanitize.Values(out)
}

func parseScalar(v string) any {
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/formwork/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// Store implements ports.DraftStore using Redis. Drafts are encoded with
// msgpack and indexed per form in a sorted set scored by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for drafts.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for drafts.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "formwork:draft:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(formID, sessionID string) string {
	return s.prefix + formID + ":" + sessionID
}

func (s *Store) indexKey(formID string) string {
	return s.prefix + "index:" + formID
}

// Save persists the draft to Redis.
func (s *Store) Save(ctx context.Context, draft *domain.Draft) error {
	data, err := msgpack.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	pipe := s.client.Pipeline()

	// A zero TTL means no expiration.
	pipe.Set(ctx, s.key(draft.FormID, draft.SessionID), data, s.ttl)

	// Score = Now + TTL, or far in the future without TTL.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	pipe.ZAdd(ctx, s.indexKey(draft.FormID), backend.Z{
		Score:  score,
		Member: draft.SessionID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a draft from Redis.
func (s *Store) Load(ctx context.Context, formID, sessionID string) (*domain.Draft, error) {
	val, err := s.client.Get(ctx, s.key(formID, sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var draft domain.Draft
	if err := msgpack.Unmarshal(val, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	if draft.Values == nil {
		draft.Values = make(map[string]any)
	}
	return &draft, nil
}

// Delete removes the draft.
func (s *Store) Delete(ctx context.Context, formID, sessionID string) error {
	pipe := s.client.Pipeline()

	pipe.Del(ctx, s.key(formID, sessionID))
	pipe.ZRem(ctx, s.indexKey(formID), sessionID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the sessions holding a draft of formID. Expired entries are
// pruned from the index lazily.
func (s *Store) List(ctx context.Context, formID string) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(formID), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired drafts: %w", err)
	}

	sessions, err := s.client.ZRange(ctx, s.indexKey(formID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	return sessions, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

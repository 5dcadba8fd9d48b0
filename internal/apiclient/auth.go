package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginRoute is where an unauthenticated shell should send the operator.
const LoginRoute = "/auth/login"

// TokenStore persists the bearer token between requests.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// UnauthenticatedEvent is published when the backend rejects the token.
type UnauthenticatedEvent struct {
	Redirect string
	Reason   string
	At       time.Time
}

// AuthContext owns the bearer token and notifies subscribers when the
// backend answers 401.
type AuthContext struct {
	store TokenStore

	mu          sync.Mutex
	subscribers []chan UnauthenticatedEvent
}

func NewAuthContext(store TokenStore) *AuthContext {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	return &AuthContext{store: store}
}

// Token returns the current token or "" when none is stored or the store
// cannot be read.
func (a *AuthContext) Token(ctx context.Context) string {
	token, err := a.store.Token(ctx)
	if err != nil {
		slog.Warn("token store read failed", "error", err)
		return ""
	}
	return token
}

func (a *AuthContext) SetToken(ctx context.Context, token string) error {
	if err := a.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("auth: set token: %w", err)
	}
	return nil
}

// Invalidate clears the stored token and notifies every subscriber.
// Slow subscribers miss events rather than block the request path.
func (a *AuthContext) Invalidate(ctx context.Context, reason string) {
	if err := a.store.ClearToken(ctx); err != nil {
		slog.Error("token store clear failed", "error", err)
	}

	ev := UnauthenticatedEvent{Redirect: LoginRoute, Reason: reason, At: time.Now()}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ch := range a.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Reject handles a 401 for a request sent with token. A rejection of a
// token that has since been replaced is stale and ignored.
func (a *AuthContext) Reject(ctx context.Context, token, reason string) {
	if token != "" {
		if current := a.Token(ctx); current != "" && current != token {
			slog.Debug("ignoring 401 for a replaced token", "request", reason)
			return
		}
	}
	a.Invalidate(ctx, reason)
}

// Subscribe returns a channel receiving UnauthenticatedEvents.
func (a *AuthContext) Subscribe() <-chan UnauthenticatedEvent {
	ch := make(chan UnauthenticatedEvent, 1)
	a.mu.Lock()
	a.subscribers = append(a.subscribers, ch)
	a.mu.Unlock()
	return ch
}

func (a *AuthContext) Unsubscribe(sub <-chan UnauthenticatedEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, ch := range a.subscribers {
		if ch == sub {
			a.subscribers = append(a.subscribers[:i], a.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Token(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryTokenStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) ClearToken(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// RedisTokenStore keeps the token under a single Redis key so it survives
// console restarts and is shared by every console instance.
type RedisTokenStore struct {
	redis redis.Cmdable
	key   string
}

func NewRedisTokenStore(rdb redis.Cmdable, key string) *RedisTokenStore {
	if key == "" {
		key = "console:auth:token"
	}
	return &RedisTokenStore{redis: rdb, key: key}
}

func (s *RedisTokenStore) Token(ctx context.Context) (string, error) {
	token, err := s.redis.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return token, nil
}

func (s *RedisTokenStore) SetToken(ctx context.Context, token string) error {
	if err := s.redis.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisTokenStore) ClearToken(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}

// Package session holds the process-wide authenticated session.
//
// A single Store is built at start-up and handed to whoever needs it. It is
// hydrated once from client-side storage, written on login or successful
// verification, cleared on logout or token rejection, and observable through
// Subscribe.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/jwt"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/kvstore"
)

// DefaultStorageKey is the storage key the web client used for the token.
const DefaultStorageKey = "adminToken"

// User describes the authenticated account.
type User struct {
	ID         string
	Username   string
	Email      string
	IsVerified bool
	IsAdmin    bool
}

// Session is the token plus the user it was issued for.
type Session struct {
	Token string
	User  User
}

// Authenticated reports whether both the token and the user are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && (s.User.ID != "" || s.User.Username != "")
}

// TokenVerifier checks a stored token with the auth service.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (User, error)
}

type clocker interface {
	Now() time.Time
}

// Options configures a Store.
type Options struct {
	// StorageKey is the key the token is persisted under.
	StorageKey string
	// Authorizer enforces the upload/admin policy. See NewEnforcer.
	Authorizer Authorizer
	// Clock is used to drop expired tokens before any network call.
	Clock clocker
	// MaxRetries bounds VerifyToken retries on transient errors.
	MaxRetries uint64
	// Backoff is the base of the exponential retry backoff.
	Backoff time.Duration
}

// Store is the process-wide session.
type Store struct {
	kv   kvstore.KV
	opts Options

	mu      sync.RWMutex
	current Session
	nextID  int
	subs    map[int]func(Session)
}

// New constructs a Store over kv.
func New(kv kvstore.KV, opts Options) *Store {
	if opts.StorageKey == "" {
		opts.StorageKey = DefaultStorageKey
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 200 * time.Millisecond
	}

	return &Store{
		kv:   kv,
		opts: opts,
		subs: make(map[int]func(Session)),
	}
}

// Hydrate restores the session from storage and confirms it with verifier.
// A token that is expired, rejected, or still failing after the retries is
// removed from storage.
func (s *Store) Hydrate(ctx context.Context, verifier TokenVerifier) error {
	token, err := s.kv.Get(ctx, s.opts.StorageKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to read stored session token", "error", err)
		return err
	}

	if claims, err := jwt.Inspect(token); err == nil && s.opts.Clock != nil && claims.Expired(s.opts.Clock.Now()) {
		slog.InfoContext(ctx, "stored session token expired", "expired_at", claims.ExpiresAt.Time)
		return s.Clear(ctx)
	}

	var user User
	backoff := retry.WithMaxRetries(s.opts.MaxRetries, retry.NewExponential(s.opts.Backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		u, err := verifier.VerifyToken(ctx, token)
		if err != nil {
			if goerror.IsServer(err) {
				slog.WarnContext(ctx, "session token check failed, retrying", "error", err)
				return retry.RetryableError(err)
			}
			return err
		}

		user = u
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "stored session token dropped", "error", err)
		if cerr := s.Clear(ctx); cerr != nil {
			return errors.Join(err, cerr)
		}
		return nil
	}

	s.publish(Session{Token: token, User: user})

	return nil
}

// Set persists sess and makes it current.
func (s *Store) Set(ctx context.Context, sess Session) error {
	if err := s.kv.Set(ctx, s.opts.StorageKey, sess.Token); err != nil {
		slog.ErrorContext(ctx, "failed to persist session token", "error", err)
		return err
	}

	s.publish(sess)

	return nil
}

// Clear removes the persisted token and resets the current session.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.opts.StorageKey); err != nil {
		slog.ErrorContext(ctx, "failed to delete session token", "error", err)
		return err
	}

	s.publish(Session{})

	return nil
}

// Current returns a copy of the current session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// IsAuthenticated reports whether a token and user are loaded.
func (s *Store) IsAuthenticated() bool {
	return s.Current().Authenticated()
}

// IsVerified reports whether the loaded user has passed verification.
func (s *Store) IsVerified() bool {
	cur := s.Current()
	return cur.Authenticated() && cur.User.IsVerified
}

// Token returns the current token, or "" when signed out.
func (s *Store) Token() string {
	return s.Current().Token
}

// Subscribe registers fn to be called with every new session value.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) publish(sess Session) {
	s.mu.Lock()
	s.current = sess
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

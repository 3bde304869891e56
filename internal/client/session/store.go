package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/common"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

// Persistence is where the session survives restarts.
type Persistence interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	DeleteMany(ctx context.Context, keys ...string) error
}

// Event is delivered to subscribers after every change.
type Event struct {
	State   State
	Session *Session
}

// Store holds the current session. All methods are safe for concurrent use.
// Listeners run synchronously after the lock is released and before the
// mutating call returns.
type Store struct {
	persist Persistence
	log     logging.Logger
	now     func() time.Time

	// write serializes persistence with the in-memory swap that follows it
	write sync.Mutex

	mu      sync.RWMutex
	current *Session
	subs    map[int]func(Event)
	nextSub int
}

func NewStore(persist Persistence, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		persist: persist,
		log:     log.With("component", "session"),
		now:     time.Now,
		subs:    make(map[int]func(Event)),
	}
}

// Hydrate loads a persisted session. A missing or expired token leaves the
// store Anonymous; an expired one is also removed from persistence.
func (s *Store) Hydrate(ctx context.Context) error {
	tok, err := s.persist.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if len(tok) == 0 {
		return nil
	}

	var user models.User
	raw, err := s.persist.Get(ctx, common.CurrentUserKey)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &user); err != nil {
			s.log.Warn(ctx, "discarding unreadable cached user", "error", err)
			user = models.User{}
		}
	}

	sess := &Session{Token: string(tok), User: user, ExpiresAt: tokenExpiry(string(tok))}
	if sess.Expired(s.now()) {
		s.log.Info(ctx, "persisted session expired", "expires_at", sess.ExpiresAt)
		return s.Clear(ctx)
	}

	s.write.Lock()
	if s.Current() != nil {
		// a sign-in won the race
		s.write.Unlock()
		return nil
	}
	ev, listeners := s.swap(sess)
	s.write.Unlock()
	notify(listeners, ev)
	return nil
}

// Set persists and publishes a new session.
func (s *Store) Set(ctx context.Context, token string, user models.User) error {
	if token == "" {
		return fmt.Errorf("set session: %w", common.ErrInvalidToken)
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}

	s.write.Lock()
	if err := s.persist.SetMany(ctx, map[string][]byte{
		common.AccessTokenKey: []byte(token),
		common.CurrentUserKey: rawUser,
	}); err != nil {
		s.write.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	ev, listeners := s.swap(&Session{Token: token, User: user, ExpiresAt: tokenExpiry(token)})
	s.write.Unlock()

	notify(listeners, ev)
	return nil
}

// UpdateUser replaces the cached user of the current session.
// A concurrent Clear either runs first, making this fail with
// ErrNotSignedIn, or after, removing the updated user as well.
func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.write.Lock()
	cur := s.Current()
	if cur == nil {
		s.write.Unlock()
		return ErrNotSignedIn
	}
	if err := s.persist.SetMany(ctx, map[string][]byte{common.CurrentUserKey: rawUser}); err != nil {
		s.write.Unlock()
		return fmt.Errorf("persist user: %w", err)
	}
	cur.User = user
	ev, listeners := s.swap(cur)
	s.write.Unlock()

	notify(listeners, ev)
	return nil
}

// Clear drops the session. The in-memory session is cleared and subscribers
// notified even when removing it from persistence fails; that error is
// returned afterwards.
func (s *Store) Clear(ctx context.Context) error {
	s.write.Lock()
	err := s.persist.DeleteMany(ctx, common.AccessTokenKey, common.CurrentUserKey)
	ev, listeners := s.swap(nil)
	s.write.Unlock()

	notify(listeners, ev)
	if err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// Current returns a copy of the session, or nil when signed out.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Token implements client.TokenSource. Expired tokens are not sent.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Expired(s.now()) {
		return ""
	}
	return s.current.Token
}

func (s *Store) IsAuthenticated() bool {
	return s.State() != Anonymous
}

func (s *Store) IsAdmin() bool {
	return s.State() == AuthenticatedAdmin
}

// State is derived on every call so token expiry is noticed without a
// separate timer.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	switch {
	case s.current == nil || s.current.Token == "" || s.current.Expired(s.now()):
		return Anonymous
	case s.current.User.IsAdmin:
		return AuthenticatedAdmin
	default:
		return Authenticated
	}
}

// Subscribe registers fn for change events and returns its cancel func.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
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

// swap installs sess and returns the event and listeners to notify once the
// caller has released s.write.
func (s *Store) swap(sess *Session) (Event, []func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	ev := Event{State: s.stateLocked(), Session: sess.Clone()}
	listeners := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	return ev, listeners
}

func notify(listeners []func(Event), ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}

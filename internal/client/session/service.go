package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/dealerdash/internal/client/models"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

// API is the remote side of the auth flows.
type API interface {
	SignIn(ctx context.Context, email, password string) (string, models.User, error)
	SignOut(ctx context.Context) error
	UpdateUser(ctx context.Context, id string, changes any) (json.RawMessage, error)
	DeleteUser(ctx context.Context, id string) error
}

type Service struct {
	api   API
	store *Store
	log   logging.Logger
}

func NewService(api API, store *Store, log logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{api: api, store: store, log: log.With("component", "auth")}
}

// SignIn authenticates and publishes the new session. On failure the store
// is left as it was.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	token, user, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if err := s.store.Set(ctx, token, user); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "signed in", "user", user.Username, "admin", user.IsAdmin)
	return s.store.Current(), nil
}

// SignOut tells the API (best effort) and always clears the local session.
// Only a failure to clear local persistence is returned.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.api.SignOut(ctx); err != nil {
		s.log.Warn(ctx, "remote sign-out failed", "error", err)
	}
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error(ctx, "local sign-out incomplete", "error", err)
		return err
	}
	s.log.Info(ctx, "signed out")
	return nil
}

// DeleteAccount removes the signed-in account and clears the session on
// success.
func (s *Service) DeleteAccount(ctx context.Context) error {
	cur := s.store.Current()
	if cur == nil {
		return ErrNotSignedIn
	}
	if err := s.api.DeleteUser(ctx, cur.User.ID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info(ctx, "account deleted", "user", cur.User.Username)
	return s.store.Clear(ctx)
}

// ProfileSubmitter sends profile changes for the signed-in user. On success
// the reply replaces the cached user.
func (s *Service) ProfileSubmitter() func(ctx context.Context, changes map[string]any) (json.RawMessage, error) {
	return func(ctx context.Context, changes map[string]any) (json.RawMessage, error) {
		cur := s.store.Current()
		if cur == nil {
			return nil, ErrNotSignedIn
		}
		reply, err := s.api.UpdateUser(ctx, cur.User.ID, changes)
		if err != nil {
			return nil, err
		}

		var updated models.User
		if err := json.Unmarshal(reply, &updated); err != nil || updated.ID == "" {
			s.log.Warn(ctx, "profile reply not a user, keeping cached user", "error", err)
			return reply, nil
		}
		if err := s.store.UpdateUser(ctx, updated); err != nil {
			s.log.Warn(ctx, "could not cache updated user", "error", err)
		}
		return reply, nil
	}
}

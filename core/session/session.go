// Package session holds the client's proof of authentication: the bearer
// token together with the cached identity it belongs to.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/malindutharaka300/ucms-f/core/user"
)

// Storage keys
const (
	TokenKey = "token"
	UserKey  = "user"
)

var (
	ErrEmptyToken = errors.New("session token is empty")
	ErrNoUser     = errors.New("session has no user")
)

type (
	// Storage is a durable key/value store surviving process restarts.
	Storage interface {
		GetItem(ctx context.Context, key string) (string, bool, error)
		SetItem(ctx context.Context, key, value string) error
		RemoveItem(ctx context.Context, key string) error
	}

	Session struct {
		Token string
		User  user.User
	}

	// Store is the application-scoped session context.
	// Token and user are always set and cleared together.
	Store struct {
		storage Storage
		mutex   sync.RWMutex
		current *Session
	}
)

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Hydrate loads the persisted session. A half-present session
// (token without user or the reverse) is wiped.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.current = nil
	token, hasToken, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		return errors.Wrap(err, "reading token")
	}
	raw, hasUser, err := s.storage.GetItem(ctx, UserKey)
	if err != nil {
		return errors.Wrap(err, "reading user")
	}

	var usr user.User
	if hasUser {
		if err := json.Unmarshal([]byte(raw), &usr); err != nil || usr.ID == 0 {
			hasUser = false
		}
	}
	if !hasToken || token == "" || !hasUser {
		if hasToken || hasUser {
			return s.clear(ctx)
		}
		return nil
	}
	s.current = &Session{Token: token, User: usr}
	return nil
}

func (s *Store) Get() (Session, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *Store) Token() string {
	sess, _ := s.Get()
	return sess.Token
}

func (s *Store) User() (user.User, bool) {
	sess, ok := s.Get()
	return sess.User, ok
}

func (s *Store) Set(ctx context.Context, sess Session) error {
	if sess.Token == "" {
		return ErrEmptyToken
	}
	if sess.User.ID == 0 {
		return ErrNoUser
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.persist(ctx, sess); err != nil {
		// never leave one half behind
		_ = s.clear(ctx)
		return err
	}
	s.current = &sess
	return nil
}

// SetUser refreshes the cached identity and keeps the token.
func (s *Store) SetUser(ctx context.Context, usr user.User) error {
	if usr.ID == 0 {
		return ErrNoUser
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.current == nil {
		return errors.New("no session to update")
	}
	sess := Session{Token: s.current.Token, User: usr}
	if err := s.persist(ctx, sess); err != nil {
		return err
	}
	s.current = &sess
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.clear(ctx)
}

func (s *Store) clear(ctx context.Context) error {
	s.current = nil
	tErr := s.storage.RemoveItem(ctx, TokenKey)
	uErr := s.storage.RemoveItem(ctx, UserKey)
	if tErr != nil {
		return errors.Wrap(tErr, "removing token")
	}
	return errors.Wrap(uErr, "removing user")
}

func (s *Store) persist(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess.User)
	if err != nil {
		return errors.Wrap(err, "encoding user")
	}
	if err := s.storage.SetItem(ctx, TokenKey, sess.Token); err != nil {
		return errors.Wrap(err, "storing token")
	}
	return errors.Wrap(s.storage.SetItem(ctx, UserKey, string(data)), "storing user")
}

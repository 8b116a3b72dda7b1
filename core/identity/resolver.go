// Package identity re-validates the cached session against the backend.
package identity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/nav"
	"github.com/malindutharaka300/ucms-f/core/user"
)

const mePath = "/user"

type (
	API interface {
		Get(ctx context.Context, path string, result interface{}) error
	}

	Store interface {
		Token() string
		SetUser(ctx context.Context, usr user.User) error
		Clear(ctx context.Context) error
	}

	// Resolver is the session guard run when entering the protected area.
	Resolver struct {
		api   API
		store Store
		nav   nav.Navigator
		log   core.Logger
	}
)

func NewResolver(api API, store Store, navigator nav.Navigator, logger core.Logger) *Resolver {
	return &Resolver{
		api:   api,
		store: store,
		nav:   navigator,
		log:   logger,
	}
}

// Resolve asks the backend who the token belongs to and refreshes the cached
// user. On any failure the session is cleared and navigation is replaced with
// the login entry point.
func (r *Resolver) Resolve(ctx context.Context) (user.User, error) {
	if r.store.Token() == "" {
		r.evict(ctx)
		return user.User{}, core.ErrNoSession
	}

	var usr user.User
	if err := r.api.Get(ctx, mePath, &usr); err != nil {
		r.evict(ctx)
		return user.User{}, errors.Wrap(err, "resolving identity")
	}
	if err := r.store.SetUser(ctx, usr); err != nil {
		r.evict(ctx)
		return user.User{}, errors.Wrap(err, "caching identity")
	}
	return usr, nil
}

func (r *Resolver) evict(ctx context.Context) {
	if err := r.store.Clear(ctx); err != nil {
		r.log.Error("clearing session", err)
	}
	r.nav.Replace(nav.RouteLogin)
}

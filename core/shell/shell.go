// Package shell is the protected area: it guards entry, exposes the
// navigation for the resolved role and swaps the active view.
package shell

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/nav"
	"github.com/malindutharaka300/ucms-f/core/user"
)

const logoutPath = "/logout"

type (
	API interface {
		Post(ctx context.Context, path string, body, result interface{}) error
	}

	Guard interface {
		Resolve(ctx context.Context) (user.User, error)
	}

	Session interface {
		User() (user.User, bool)
		Clear(ctx context.Context) error
	}

	// View is anything the shell can mount, usually a resource panel.
	View interface {
		Mount(ctx context.Context) error
		Unmount()
	}

	Shell struct {
		api   API
		guard Guard
		sess  Session
		nav   nav.Navigator
		log   core.Logger

		mutex   sync.Mutex
		entered bool
		active  View
	}
)

func New(api API, guard Guard, sess Session, navigator nav.Navigator, logger core.Logger) *Shell {
	return &Shell{
		api:   api,
		guard: guard,
		sess:  sess,
		nav:   navigator,
		log:   logger,
	}
}

// Enter runs the session guard once per navigation into the protected area.
// Entering again before leaving returns the cached identity.
func (sh *Shell) Enter(ctx context.Context) (user.User, error) {
	sh.mutex.Lock()
	entered := sh.entered
	sh.mutex.Unlock()
	if entered {
		if usr, ok := sh.sess.User(); ok {
			return usr, nil
		}
	}

	usr, err := sh.guard.Resolve(ctx)
	if err != nil {
		sh.Leave()
		return user.User{}, err
	}
	sh.mutex.Lock()
	sh.entered = true
	sh.mutex.Unlock()
	return usr, nil
}

// Me returns the identity resolved for the session.
func (sh *Shell) Me() (user.User, bool) {
	return sh.sess.User()
}

func (sh *Shell) NavItems() []nav.Item {
	usr, ok := sh.sess.User()
	if !ok {
		return nil
	}
	return nav.Items(usr)
}

// Open unmounts the active view and mounts v in its place.
// A session evicted since Enter leaves the protected area instead.
func (sh *Shell) Open(ctx context.Context, v View) error {
	if _, ok := sh.sess.User(); !ok {
		sh.Leave()
		return core.ErrNoSession
	}
	sh.mutex.Lock()
	if !sh.entered {
		sh.mutex.Unlock()
		return core.ErrNoSession
	}
	prev := sh.active
	sh.active = v
	sh.mutex.Unlock()

	if prev != nil {
		prev.Unmount()
	}
	return v.Mount(ctx)
}

// Logout tells the backend, then clears the session whatever it answered.
func (sh *Shell) Logout(ctx context.Context) error {
	if err := sh.api.Post(ctx, logoutPath, nil, nil); err != nil {
		sh.log.Warn("logout request failed", err)
	}
	sh.Leave()
	if err := sh.sess.Clear(ctx); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	sh.nav.Replace(nav.RouteLogin)
	return nil
}

// Leave unmounts the active view and forgets the entry, so that the next
// Enter runs the guard again. It is what the gateway calls once the backend
// rejected the session.
func (sh *Shell) Leave() {
	sh.mutex.Lock()
	prev := sh.active
	sh.entered, sh.active = false, nil
	sh.mutex.Unlock()
	if prev != nil {
		prev.Unmount()
	}
}

package testutil

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/nav"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/session"
	"github.com/malindutharaka300/ucms-f/core/user"
	logsvc "github.com/malindutharaka300/ucms-f/services/logger"
	inmemdb "github.com/malindutharaka300/ucms-f/storage/database/inmem"
	"github.com/malindutharaka300/ucms-f/tests/fakeapi"
)

// Notification is one message a panel reported.
type Notification struct {
	Severity panel.Severity
	Message  string
}

// Notifier records notifications.
type Notifier struct {
	mutex sync.Mutex
	list  []Notification
}

var _ panel.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(severity panel.Severity, msg string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.list = append(n.list, Notification{Severity: severity, Message: msg})
}

func (n *Notifier) All() []Notification {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return append([]Notification(nil), n.list...)
}

func (n *Notifier) Last() Notification {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if len(n.list) == 0 {
		return Notification{}
	}
	return n.list[len(n.list)-1]
}

func (n *Notifier) Reset() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.list = nil
}

// Client is a complete client stack talking to an in-memory backend.
type Client struct {
	API        *fakeapi.Server
	Server     *httptest.Server
	Storage    *inmemdb.ItemStorage
	Store      *session.Store
	Gateway    *gateway.Client
	History    *nav.History
	Notifier   *Notifier
	Validate   *validator.Validate
	Translator ut.Translator
	Logger     core.Logger
}

func NewClient(t *testing.T) *Client {
	t.Helper()

	c := &Client{
		API:      fakeapi.New(),
		Storage:  inmemdb.NewItemStorage(),
		History:  nav.NewHistory(nav.RouteLogin),
		Notifier: new(Notifier),
		Logger:   logsvc.NewNopLogger(),
	}
	c.Server = httptest.NewServer(c.API)
	t.Cleanup(c.Server.Close)

	c.Store = session.NewStore(c.Storage)
	c.Validate, c.Translator = core.NewValidator()
	c.Gateway = gateway.New(gateway.Options{
		BaseURL: c.Server.URL,
		Timeout: 5 * time.Second,
		OnUnauthorized: func(context.Context) {
			c.History.Replace(nav.RouteLogin)
		},
	}, c.Store, c.Logger)
	return c
}

// LoginAs stores a valid session for usr without going through the login flow.
func (c *Client) LoginAs(t *testing.T, usr fakeapi.User) user.User {
	t.Helper()
	me := user.User{ID: usr.ID, Name: usr.Name, Email: usr.Email, Role: usr.Role}
	sess := session.Session{Token: c.API.TokenFor(usr), User: me}
	if err := c.Store.Set(context.Background(), sess); err != nil {
		t.Fatalf("LoginAs() failed: %v", err)
	}
	return me
}

// PanelDeps wires a panel to the client stack.
func (c *Client) PanelDeps() panel.Deps {
	return panel.Deps{
		API:        c.Gateway,
		Identity:   c.Store,
		Notifier:   c.Notifier,
		Validate:   c.Validate,
		Translator: c.Translator,
		Logger:     c.Logger,
	}
}

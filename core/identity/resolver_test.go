package identity_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/identity"
	"github.com/malindutharaka300/ucms-f/core/nav"
	"github.com/malindutharaka300/ucms-f/core/session"
	"github.com/malindutharaka300/ucms-f/core/user"
	"github.com/malindutharaka300/ucms-f/tests"
	"github.com/malindutharaka300/ucms-f/tests/fakeapi"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		login    bool
		stale    bool // the cached user is outdated
		failWith int  // status the backend answers GET /user with
		wantErr  bool
	}{
		{name: "no session", wantErr: true},
		{name: "valid session", login: true},
		{name: "refreshes the cached user", login: true, stale: true},
		{name: "revoked token", login: true, failWith: http.StatusUnauthorized, wantErr: true},
		{name: "server error", login: true, failWith: http.StatusInternalServerError, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testutil.NewClient(t)
			usr := c.API.AddUser("Sam", "sam@uni.test", fakeapi.RoleStudent, "pwd")
			if tt.login {
				c.LoginAs(t, usr)
				c.History.Push(nav.RouteCourses)
			}
			if tt.stale {
				require.NoError(t, c.Store.SetUser(ctx, user.User{ID: usr.ID, Name: "Old name", Role: user.RoleAdmin}))
			}
			if tt.failWith != 0 {
				c.API.FailNext(http.MethodGet, "/user", tt.failWith, "")
			}

			resolver := identity.NewResolver(c.Gateway, c.Store, c.History, c.Logger)
			got, err := resolver.Resolve(ctx)
			if tt.wantErr {
				assert.Error(t, err)
				_, ok := c.Store.Get()
				assert.False(t, ok, "session must be cleared")
				assert.Zero(t, c.Storage.Len())
				assert.Equal(t, nav.RouteLogin, c.History.Current())
				assert.NotContains(t, c.History.Entries(), nav.RouteCourses, "back-navigation must not return")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, usr.Name, got.Name)
			assert.Equal(t, fakeapi.RoleStudent, got.Role)

			cached, _ := c.Store.User()
			assert.Equal(t, got, cached)
			assert.Equal(t, nav.RouteCourses, c.History.Current())
		})
	}
}

func TestResolver_NoTokenSkipsRequest(t *testing.T) {
	c := testutil.NewClient(t)
	resolver := identity.NewResolver(c.Gateway, c.Store, c.History, c.Logger)

	_, err := resolver.Resolve(context.Background())
	assert.Equal(t, core.ErrNoSession, err)
	assert.True(t, core.IsUnauthenticated(err))
	assert.Empty(t, c.API.Calls())
}

func TestResolver_KeepsToken(t *testing.T) {
	c := testutil.NewClient(t)
	usr := c.API.AddUser("Sam", "sam@uni.test", fakeapi.RoleStudent, "pwd")
	c.LoginAs(t, usr)
	token := c.Store.Token()

	_, err := identity.NewResolver(c.Gateway, c.Store, c.History, c.Logger).Resolve(context.Background())
	require.NoError(t, err)
	sess, ok := c.Store.Get()
	assert.True(t, ok)
	assert.Equal(t, session.Session{Token: token, User: user.User{ID: usr.ID, Name: usr.Name, Email: usr.Email, Role: usr.Role}}, sess)
}

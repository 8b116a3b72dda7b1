package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/nav"
	"github.com/malindutharaka300/ucms-f/core/session"
	"github.com/malindutharaka300/ucms-f/core/user"
	logsvc "github.com/malindutharaka300/ucms-f/services/logger"
	inmemdb "github.com/malindutharaka300/ucms-f/storage/database/inmem"
	"github.com/malindutharaka300/ucms-f/tests"
	"github.com/malindutharaka300/ucms-f/tests/fakeapi"
)

var ctx = context.Background()

func TestClient_BearerToken(t *testing.T) {
	c := testutil.NewClient(t)
	admin := c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd")

	var me user.User
	err := c.Gateway.Get(ctx, "/user", &me)
	assert.True(t, core.IsUnauthenticated(err))
	assert.Empty(t, c.API.Calls()[0].Auth)

	c.LoginAs(t, admin)
	require.NoError(t, c.Gateway.Get(ctx, "/user", &me))
	assert.Equal(t, admin.Email, me.Email)
	calls := c.API.Calls()
	assert.Equal(t, "Bearer "+c.Store.Token(), calls[len(calls)-1].Auth)
}

func TestClient_ErrorPayloads(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "message field", status: http.StatusUnprocessableEntity, body: `{"message":"The code has already been taken."}`, wantMessage: "The code has already been taken."},
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"Bad course"}`, wantMessage: "Bad course"},
		{name: "message wins over error", status: http.StatusBadRequest, body: `{"message":"first","error":"second"}`, wantMessage: "first"},
		{name: "non-string message", status: http.StatusBadRequest, body: `{"message":{"name":["required"]}}`},
		{name: "no body", status: http.StatusInternalServerError},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := gateway.New(gateway.Options{BaseURL: srv.URL, Timeout: time.Second},
				session.NewStore(inmemdb.NewItemStorage()), logsvc.NewNopLogger())
			err := client.Get(ctx, "/courses", nil)

			var apiErr *core.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			if tt.wantMessage == "" {
				assert.Equal(t, "fallback", core.Message(err, "fallback"))
			} else {
				assert.Equal(t, tt.wantMessage, core.Message(err, "fallback"))
			}
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := gateway.New(gateway.Options{BaseURL: srv.URL, Timeout: time.Second},
		session.NewStore(inmemdb.NewItemStorage()), logsvc.NewNopLogger())
	err := client.Get(ctx, "/courses", nil)
	require.Error(t, err)
	assert.False(t, core.IsUnauthenticated(err))
	assert.Equal(t, "Failed to load", core.Message(err, "Failed to load"))
}

func TestClient_UnauthorizedEvictsSession(t *testing.T) {
	c := testutil.NewClient(t)
	admin := c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd")
	c.LoginAs(t, admin)
	c.History.Push(nav.RouteCourses)

	c.API.Revoke(c.Store.Token())
	err := c.Gateway.Get(ctx, "/courses", nil)
	assert.True(t, core.IsUnauthenticated(err))

	_, ok := c.Store.Get()
	assert.False(t, ok)
	assert.Zero(t, c.Storage.Len())
	assert.Equal(t, nav.RouteLogin, c.History.Current())
	assert.Equal(t, []string{nav.RouteLogin, nav.RouteLogin}, c.History.Entries())
}

func TestClient_UnauthorizedWithoutTokenKeepsNavigation(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := gateway.New(gateway.Options{
		BaseURL:        srv.URL,
		Timeout:        time.Second,
		OnUnauthorized: func(context.Context) { called = true },
	}, session.NewStore(inmemdb.NewItemStorage()), logsvc.NewNopLogger())
	err := client.Post(ctx, "/login", map[string]string{"email": "x"}, nil)
	assert.True(t, core.IsUnauthenticated(err))
	assert.False(t, called)
}

func TestClient_Multipart(t *testing.T) {
	c := testutil.NewClient(t)
	admin := c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd")
	crs := c.API.AddCourse(fakeapi.Course{Name: "Algebra", Code: "MA101", Status: 1})
	c.LoginAs(t, admin)

	err := c.Gateway.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/courses/update/" + itoa(crs.ID),
		Form:   map[string]string{"name": "Linear Algebra", "code": "MA102", "status": "0", "_method": "PUT"},
		Files:  []gateway.File{{Param: "image", Name: "cover.png", Open: gateway.FileBytes([]byte("png"))}},
	})
	require.NoError(t, err)

	updated := c.API.Courses()[0]
	assert.Equal(t, "Linear Algebra", updated.Name)
	assert.Equal(t, 0, updated.Status)
	assert.Equal(t, "storage/courses/cover.png", updated.Image)
	assert.Equal(t, 1, c.API.CallCount(http.MethodPut, "/courses/update/"+itoa(crs.ID)))
}

func TestClient_MultipartResent(t *testing.T) {
	c := testutil.NewClient(t)
	admin := c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd")
	crs := c.API.AddCourse(fakeapi.Course{Name: "Algebra", Code: "MA101", Status: 1})
	c.LoginAs(t, admin)

	cover := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(cover, []byte("not really a png"), 0o600))

	path := "/courses/update/" + itoa(crs.ID)
	req := gateway.Request{
		Method: http.MethodPost,
		Path:   path,
		Form:   map[string]string{"name": "Algebra", "code": "MA101", "_method": "PUT"},
		Files:  []gateway.File{{Param: "image", Name: "cover.png", Open: gateway.FileAt(cover)}},
	}
	c.API.FailNext(http.MethodPut, path, http.StatusUnprocessableEntity, "The image is invalid.")
	assert.Error(t, c.Gateway.Do(ctx, req))
	require.NoError(t, c.Gateway.Do(ctx, req))

	updated := c.API.Courses()[0]
	assert.Equal(t, "storage/courses/cover.png", updated.Image)
	assert.Equal(t, int64(len("not really a png")), updated.ImageSize, "second attempt carries the whole file")
}

func TestClient_MissingAttachment(t *testing.T) {
	c := testutil.NewClient(t)
	c.LoginAs(t, c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd"))

	err := c.Gateway.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/courses/store",
		Form:   map[string]string{"name": "Algebra", "code": "MA101"},
		Files:  []gateway.File{{Param: "image", Name: "x.png", Open: gateway.FileAt(filepath.Join(t.TempDir(), "x.png"))}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening attachment")
	assert.Zero(t, c.API.CallCount(http.MethodPost, "/courses/store"), "nothing is sent")
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

package course_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malindutharaka300/ucms-f/core/course"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/user"
	"github.com/malindutharaka300/ucms-f/tests"
	"github.com/malindutharaka300/ucms-f/tests/fakeapi"
)

func TestCourse_Display(t *testing.T) {
	tests := []struct {
		name       string
		course     course.Course
		wantStatus string
		wantImage  string
	}{
		{name: "active with image", course: course.Course{Status: 1, Image: "storage/courses/a.png"}, wantStatus: "Active", wantImage: "http://app.test/storage/courses/a.png"},
		{name: "inactive without image", course: course.Course{Status: 0}, wantStatus: "Inactive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.course.StatusText())
			assert.Equal(t, tt.wantImage, tt.course.ImageURL("http://app.test/"))
		})
	}
}

func TestResource_Requests(t *testing.T) {
	res := course.Resource{}
	d := course.Draft{Name: " Algebra ", Code: "MA101", Status: 0}

	create := res.CreateRequest(d)
	assert.Equal(t, http.MethodPost, create.Method)
	assert.Equal(t, "/courses/store", create.Path)
	assert.Equal(t, map[string]string{"name": "Algebra", "code": "MA101", "status": "0"}, create.Form)
	assert.Empty(t, create.Files, "no image part unless one is picked")

	d.ImageName, d.Image = "cover.png", gateway.FileBytes([]byte("png"))
	update := res.UpdateRequest(4, d)
	assert.Equal(t, http.MethodPost, update.Method)
	assert.Equal(t, "/courses/update/4", update.Path)
	assert.Equal(t, http.MethodPut, update.Form[panel.MethodOverrideField])
	require.Len(t, update.Files, 1)
	assert.Equal(t, "image", update.Files[0].Param)
	assert.Equal(t, "cover.png", update.Files[0].Name)

	assert.Equal(t, "/courses/delete/4", res.DeletePath(4))
	assert.Equal(t, course.Draft{Status: course.StatusActive}, res.NewDraft(user.User{}))
	assert.Equal(t, course.Draft{Name: "Algebra", Code: "MA101", Status: 1}, res.DraftFrom(course.Course{ID: 4, Name: "Algebra", Code: "MA101", Status: 1, Image: "x.png"}))
}

func TestPanel_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewClient(t)
	ada := c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd")
	c.API.AddCourse(fakeapi.Course{Name: "Algebra", Code: "MA101", Status: 1})
	c.LoginAs(t, ada)

	p := course.NewPanel(c.PanelDeps())
	require.NoError(t, p.Mount(ctx))
	require.Len(t, p.Items(), 1)

	// create with an image
	require.NoError(t, p.OpenCreate())
	require.NoError(t, p.UpdateDraft(func(d *course.Draft) {
		d.Name, d.Code = "Physics", "PH101"
		d.ImageName, d.Image = "atom.png", gateway.FileBytes([]byte("png"))
	}))
	require.NoError(t, p.Submit(ctx))
	assert.Equal(t, "Course created", c.Notifier.Last().Message)
	items := p.Items()
	require.Len(t, items, 2)
	physics := items[1]
	assert.Equal(t, "storage/courses/atom.png", physics.Image)
	assert.True(t, physics.Active())

	// update travels as POST with the PUT override
	require.NoError(t, p.OpenEdit(physics.ID))
	require.NoError(t, p.UpdateDraft(func(d *course.Draft) { d.Status = course.StatusInactive }))
	require.NoError(t, p.Submit(ctx))
	assert.Equal(t, "Course updated", c.Notifier.Last().Message)
	assert.False(t, p.Items()[1].Active())
	assert.Equal(t, "storage/courses/atom.png", p.Items()[1].Image, "image kept when none is sent")

	// a duplicate code is rejected by the server, verbatim
	require.NoError(t, p.OpenCreate())
	require.NoError(t, p.UpdateDraft(func(d *course.Draft) { d.Name, d.Code = "Algebra II", "MA101" }))
	assert.Error(t, p.Submit(ctx))
	assert.Equal(t, testutil.Notification{Severity: panel.Failure, Message: "The code has already been taken."}, c.Notifier.Last())
	p.CloseForm()

	require.NoError(t, p.Delete(ctx, physics.ID, func() bool { return true }))
	assert.Equal(t, "Course deleted", c.Notifier.Last().Message)
	assert.Len(t, p.Items(), 1)
	assert.Len(t, c.API.Courses(), 1)
}

func TestPanel_RequiredFields(t *testing.T) {
	c := testutil.NewClient(t)
	c.LoginAs(t, c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd"))
	p := course.NewPanel(c.PanelDeps())
	require.NoError(t, p.Mount(context.Background()))

	require.NoError(t, p.OpenCreate())
	require.NoError(t, p.UpdateDraft(func(d *course.Draft) { d.Name = "Algebra" }))
	assert.Error(t, p.Submit(context.Background()))
	assert.Equal(t, "code: this field cannot be blank", c.Notifier.Last().Message)
	assert.Zero(t, c.API.CallCount(http.MethodPost, "/courses/store"))
}

func TestPanel_StudentIsReadOnly(t *testing.T) {
	c := testutil.NewClient(t)
	c.API.AddCourse(fakeapi.Course{Name: "Algebra", Code: "MA101", Status: 1})
	c.LoginAs(t, c.API.AddUser("Sam", "sam@uni.test", fakeapi.RoleStudent, "pwd"))

	p := course.NewPanel(c.PanelDeps())
	require.NoError(t, p.Mount(context.Background()))
	assert.Len(t, p.Items(), 1)
	assert.Equal(t, panel.Controls{}, p.Controls())
}

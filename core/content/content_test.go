package content_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malindutharaka300/ucms-f/core/content"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/tests"
	"github.com/malindutharaka300/ucms-f/tests/fakeapi"
)

const appURL = "http://app.test"

func TestContent_URLs(t *testing.T) {
	tests := []struct {
		name        string
		content     content.Content
		wantURL     string
		wantThumb   string
		wantPreview bool
	}{
		{
			name:        "image from path",
			content:     content.Content{Type: content.TypeImage, Path: "storage/contents/1/a.png"},
			wantURL:     appURL + "/storage/contents/1/a.png",
			wantThumb:   appURL + "/storage/contents/1/a.png",
			wantPreview: true,
		},
		{
			name:        "absolute url wins",
			content:     content.Content{Type: content.TypeImage, Path: "a.png", ContentURL: "https://cdn.test/a.png"},
			wantURL:     "https://cdn.test/a.png",
			wantThumb:   "https://cdn.test/a.png",
			wantPreview: true,
		},
		{
			name:        "thumbnail preferred",
			content:     content.Content{Type: content.TypeOther, Path: "a.zip", ThumbnailURL: "https://cdn.test/zip.png"},
			wantURL:     appURL + "/a.zip",
			wantThumb:   "https://cdn.test/zip.png",
			wantPreview: true,
		},
		{name: "pdf placeholder", content: content.Content{Type: content.TypePDF, Path: "a.pdf", ThumbnailURL: "x"}, wantURL: appURL + "/a.pdf"},
		{name: "video placeholder", content: content.Content{Type: content.TypeVideo, Path: "a.mp4"}, wantURL: appURL + "/a.mp4"},
		{name: "nothing to show", content: content.Content{Type: content.TypeOther}, wantPreview: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantURL, tt.content.DisplayURL(appURL))
			thumb, ok := tt.content.Thumbnail(appURL)
			assert.Equal(t, tt.wantPreview, ok)
			assert.Equal(t, tt.wantThumb, thumb)
		})
	}
}

func TestResource_Paths(t *testing.T) {
	res := content.Resource{CourseID: 3}
	assert.Equal(t, "/courses/content/3", res.ListPath())
	assert.Equal(t, "/delete-content/9", res.DeletePath(9))

	create := res.CreateRequest(content.Draft{Title: "Intro"})
	assert.Equal(t, "/add-content/3", create.Path)
	assert.Equal(t, http.MethodPost, create.Method)

	update := res.UpdateRequest(9, content.Draft{Title: "Intro"})
	assert.Equal(t, "/update-content/9", update.Path)
	assert.Equal(t, http.MethodPost, update.Method)
	assert.Equal(t, map[string]string{"title": "Intro", panel.MethodOverrideField: http.MethodPut}, update.Form)
}

func TestPanel_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewClient(t)
	c.LoginAs(t, c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd"))
	algebra := c.API.AddCourse(fakeapi.Course{Name: "Algebra", Code: "MA101", Status: 1})
	physics := c.API.AddCourse(fakeapi.Course{Name: "Physics", Code: "PH101", Status: 1})
	c.API.AddContent(fakeapi.Content{CourseID: physics.ID, Title: "Other course", Type: "other"})

	p := content.NewPanel(algebra.ID, c.PanelDeps())
	require.NoError(t, p.Mount(ctx))
	assert.Empty(t, p.Items(), "contents are per course")

	require.NoError(t, p.OpenCreate())
	require.NoError(t, p.UpdateDraft(func(d *content.Draft) {
		d.Title = "Syllabus"
		d.FileName, d.File = "syllabus.pdf", gateway.FileBytes([]byte("%PDF"))
	}))
	require.NoError(t, p.Submit(ctx))
	assert.Equal(t, "Content added", c.Notifier.Last().Message)
	require.Len(t, p.Items(), 1)
	syllabus := p.Items()[0]
	assert.Equal(t, content.TypePDF, syllabus.Type)
	_, ok := syllabus.Thumbnail(appURL)
	assert.False(t, ok)

	require.NoError(t, p.OpenEdit(syllabus.ID))
	require.NoError(t, p.UpdateDraft(func(d *content.Draft) { d.Title = "Course syllabus" }))
	require.NoError(t, p.Submit(ctx))
	assert.Equal(t, "Content updated", c.Notifier.Last().Message)
	assert.Equal(t, "Course syllabus", p.Items()[0].Title)
	assert.Equal(t, 1, c.API.CallCount(http.MethodPut, "/update-content/"+itoa(syllabus.ID)))

	require.NoError(t, p.Delete(ctx, syllabus.ID, func() bool { return true }))
	assert.Equal(t, "Content deleted", c.Notifier.Last().Message)
	assert.Empty(t, p.Items())
	assert.Len(t, c.API.Contents(), 1)
}

func TestPanel_ResubmitAfterRejection(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewClient(t)
	c.LoginAs(t, c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd"))
	algebra := c.API.AddCourse(fakeapi.Course{Name: "Algebra", Code: "MA101", Status: 1})
	data := []byte("%PDF-1.4 lecture notes")

	p := content.NewPanel(algebra.ID, c.PanelDeps())
	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.OpenCreate())
	require.NoError(t, p.UpdateDraft(func(d *content.Draft) {
		d.Title = "Notes"
		d.FileName, d.File = "notes.pdf", gateway.FileBytes(data)
	}))

	c.API.FailNext(http.MethodPost, "/add-content/"+itoa(algebra.ID), http.StatusUnprocessableEntity, "Upload rejected, try again.")
	assert.Error(t, p.Submit(ctx))
	assert.Equal(t, "Upload rejected, try again.", c.Notifier.Last().Message)
	mode, _ := p.Form()
	require.Equal(t, panel.FormCreate, mode, "form stays open for another try")

	require.NoError(t, p.Submit(ctx))
	contents := c.API.Contents()
	require.Len(t, contents, 1)
	assert.Equal(t, "storage/contents/"+itoa(algebra.ID)+"/notes.pdf", contents[0].Path)
	assert.Equal(t, int64(len(data)), contents[0].Size)
}

func TestPanel_LoadFailure(t *testing.T) {
	c := testutil.NewClient(t)
	c.LoginAs(t, c.API.AddUser("Ada", "ada@uni.test", fakeapi.RoleAdmin, "pwd"))
	c.API.FailNext(http.MethodGet, "/courses/content/5", http.StatusInternalServerError, "")

	p := content.NewPanel(5, c.PanelDeps())
	assert.Error(t, p.Mount(context.Background()))
	assert.Equal(t, testutil.Notification{Severity: panel.Failure, Message: "Failed to load contents"}, c.Notifier.Last())
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

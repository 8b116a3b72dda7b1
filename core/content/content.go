// Package content holds the per-course contents dashboard.
package content

import (
	"fmt"
	"net/http"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/user"
)

// Content types
const (
	TypeImage = "image"
	TypeVideo = "video"
	TypePDF   = "pdf"
	TypeOther = "other"
)

type Content struct {
	ID           int    `json:"id"`
	CourseID     int    `json:"course_id"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Path         string `json:"path"`
	ContentURL   string `json:"content_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (c Content) RecordID() int {
	return c.ID
}

// DisplayURL prefers the absolute url the backend returned.
func (c Content) DisplayURL(appURL string) string {
	return core.PublicURL(appURL, c.ContentURL, c.Path)
}

// Thumbnail returns the preview image of c. ok is false for pdf and video
// content, which are shown with a placeholder of their type instead.
func (c Content) Thumbnail(appURL string) (url string, ok bool) {
	switch c.Type {
	case TypePDF, TypeVideo:
		return "", false
	}
	if c.ThumbnailURL != "" {
		return c.ThumbnailURL, true
	}
	return c.DisplayURL(appURL), true
}

type Draft struct {
	Title    string         `json:"title" validate:"notblank"`
	FileName string         `json:"-"`
	File     gateway.Opener `json:"-"`
}

// Resource is bound to the course whose contents it lists.
type Resource struct {
	CourseID int
}

type Panel = panel.Panel[Content, Draft, panel.NoOptions]

func NewPanel(courseID int, deps panel.Deps) *Panel {
	return panel.New[Content, Draft, panel.NoOptions](Resource{CourseID: courseID}, deps)
}

func (Resource) Messages() panel.Messages {
	return panel.Messages{
		LoadFailed: "Failed to load contents",
		Created:    "Content added",
		Updated:    "Content updated",
		Deleted:    "Content deleted",
	}
}

func (r Resource) ListPath() string {
	return fmt.Sprintf("/courses/content/%d", r.CourseID)
}

func (Resource) OptionsPath() string {
	return ""
}

func (Resource) DeletePath(id int) string {
	return fmt.Sprintf("/delete-content/%d", id)
}

func (Resource) NewDraft(user.User) Draft {
	return Draft{}
}

func (Resource) DraftFrom(c Content) Draft {
	return Draft{Title: c.Title}
}

func (r Resource) CreateRequest(d Draft) gateway.Request {
	return gateway.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/add-content/%d", r.CourseID),
		Form:   map[string]string{"title": core.CleanString(d.Title)},
		Files:  files(d),
	}
}

func (Resource) UpdateRequest(id int, d Draft) gateway.Request {
	return gateway.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/update-content/%d", id),
		Form: map[string]string{
			"title":                   core.CleanString(d.Title),
			panel.MethodOverrideField: http.MethodPut,
		},
		Files: files(d),
	}
}

func files(d Draft) []gateway.File {
	if d.File == nil {
		return nil
	}
	name := d.FileName
	if name == "" {
		name = "file"
	}
	return []gateway.File{{Param: "file", Name: name, Open: d.File}}
}

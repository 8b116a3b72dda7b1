// Package course holds the courses dashboard.
package course

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/user"
)

// Course statuses
const (
	StatusInactive = 0
	StatusActive   = 1
)

type Course struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Status int    `json:"status"`
	Image  string `json:"image"` // relative to the public app URL
}

func (c Course) RecordID() int {
	return c.ID
}

func (c Course) Active() bool {
	return c.Status == StatusActive
}

func (c Course) StatusText() string {
	if c.Active() {
		return "Active"
	}
	return "Inactive"
}

// ImageURL returns where the course image is served from, if it has one.
func (c Course) ImageURL(appURL string) string {
	return core.PublicURL(appURL, "", c.Image)
}

// Draft is the course form. Image is only sent when set.
type Draft struct {
	Name      string         `json:"name" validate:"notblank"`
	Code      string         `json:"code" validate:"notblank"`
	Status    int            `json:"status"`
	ImageName string         `json:"-"`
	Image     gateway.Opener `json:"-"`
}

type Resource struct{}

// Panel is the courses dashboard controller.
type Panel = panel.Panel[Course, Draft, panel.NoOptions]

func NewPanel(deps panel.Deps) *Panel {
	return panel.New[Course, Draft, panel.NoOptions](Resource{}, deps)
}

func (Resource) Messages() panel.Messages {
	return panel.Messages{
		LoadFailed: "Failed to load courses",
		Created:    "Course created",
		Updated:    "Course updated",
		Deleted:    "Course deleted",
	}
}

func (Resource) ListPath() string {
	return "/courses"
}

func (Resource) OptionsPath() string {
	return ""
}

func (Resource) DeletePath(id int) string {
	return fmt.Sprintf("/courses/delete/%d", id)
}

func (Resource) NewDraft(user.User) Draft {
	return Draft{Status: StatusActive}
}

func (Resource) DraftFrom(c Course) Draft {
	status := c.Status
	if status != StatusInactive {
		status = StatusActive
	}
	return Draft{Name: c.Name, Code: c.Code, Status: status}
}

func (Resource) CreateRequest(d Draft) gateway.Request {
	return gateway.Request{
		Method: http.MethodPost,
		Path:   "/courses/store",
		Form:   form(d),
		Files:  files(d),
	}
}

// UpdateRequest travels as a multipart POST carrying the PUT override.
func (Resource) UpdateRequest(id int, d Draft) gateway.Request {
	fields := form(d)
	fields[panel.MethodOverrideField] = http.MethodPut
	return gateway.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/courses/update/%d", id),
		Form:   fields,
		Files:  files(d),
	}
}

func form(d Draft) map[string]string {
	return map[string]string{
		"name":   core.CleanString(d.Name),
		"code":   core.CleanString(d.Code),
		"status": strconv.Itoa(d.Status),
	}
}

func files(d Draft) []gateway.File {
	if d.Image == nil {
		return nil
	}
	name := d.ImageName
	if name == "" {
		name = "image"
	}
	return []gateway.File{{Param: "image", Name: name, Open: d.Image}}
}

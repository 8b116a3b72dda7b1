// Package assignment holds the course-to-student assignments dashboard.
package assignment

import (
	"fmt"
	"net/http"

	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/user"
)

type Assignment struct {
	ID       int        `json:"id"`
	CourseID int        `json:"course_id"`
	UserID   int        `json:"user_id"`
	Date     string     `json:"date"`
	Course   *panel.Ref `json:"course"`
	User     *panel.Ref `json:"user"`
}

func (a Assignment) RecordID() int {
	return a.ID
}

func (a Assignment) CourseName() string {
	return panel.RefName(panel.RefID(a.CourseID, a.Course), a.Course)
}

func (a Assignment) StudentName() string {
	return panel.RefName(panel.RefID(a.UserID, a.User), a.User)
}

type Draft struct {
	CourseID int    `json:"course_id" validate:"required"`
	UserID   int    `json:"user_id" validate:"required"`
	Date     string `json:"date,omitempty"`
}

type Resource struct{}

type Panel = panel.Panel[Assignment, Draft, panel.Lookups]

func NewPanel(deps panel.Deps) *Panel {
	return panel.New[Assignment, Draft, panel.Lookups](Resource{}, deps)
}

func (Resource) Messages() panel.Messages {
	return panel.Messages{
		Created: "Assigned",
		Updated: "Assignment updated",
		Deleted: "Assignment deleted",
		Invalid: "Select course and student",
	}
}

func (Resource) ListPath() string {
	return "/assigns"
}

func (Resource) OptionsPath() string {
	return "/assigns/options"
}

func (Resource) DeletePath(id int) string {
	return fmt.Sprintf("/assigns/delete/%d", id)
}

func (Resource) NewDraft(user.User) Draft {
	return Draft{}
}

func (Resource) DraftFrom(a Assignment) Draft {
	return Draft{
		CourseID: panel.RefID(a.CourseID, a.Course),
		UserID:   panel.RefID(a.UserID, a.User),
		Date:     a.Date,
	}
}

func (Resource) CreateRequest(d Draft) gateway.Request {
	return gateway.Request{Method: http.MethodPost, Path: "/assigns/store", Body: d}
}

func (Resource) UpdateRequest(id int, d Draft) gateway.Request {
	return gateway.Request{Method: http.MethodPut, Path: fmt.Sprintf("/assigns/update/%d", id), Body: d}
}

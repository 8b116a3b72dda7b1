// Package result holds the test results dashboard.
package result

import (
	"fmt"
	"net/http"

	"github.com/malindutharaka300/ucms-f/core/gateway"
	"github.com/malindutharaka300/ucms-f/core/panel"
	"github.com/malindutharaka300/ucms-f/core/user"
)

var Grades = []string{"A+", "A", "B+", "B", "C+", "C", "D", "F"}

type Result struct {
	ID       int        `json:"id"`
	CourseID int        `json:"course_id"`
	UserID   int        `json:"user_id"`
	TestNo   int        `json:"test_no"`
	Grade    string     `json:"grade"`
	Course   *panel.Ref `json:"course"`
	User     *panel.Ref `json:"user"`
}

func (r Result) RecordID() int {
	return r.ID
}

func (r Result) CourseName() string {
	return panel.RefName(panel.RefID(r.CourseID, r.Course), r.Course)
}

func (r Result) StudentName() string {
	return panel.RefName(panel.RefID(r.UserID, r.User), r.User)
}

type Draft struct {
	CourseID int    `json:"course_id" validate:"required"`
	UserID   int    `json:"user_id" validate:"required"`
	TestNo   int    `json:"test_no" validate:"required"`
	Grade    string `json:"grade" validate:"notblank"`
}

type Resource struct{}

type Panel = panel.Panel[Result, Draft, panel.Lookups]

func NewPanel(deps panel.Deps) *Panel {
	return panel.New[Result, Draft, panel.Lookups](Resource{}, deps)
}

func (Resource) Messages() panel.Messages {
	return panel.Messages{
		ShowFailed: "Failed to load result",
		Created:    "Result created",
		Updated:    "Result updated",
		Deleted:    "Result deleted",
		Invalid:    "Fill all fields",
	}
}

func (Resource) ListPath() string {
	return "/results"
}

func (Resource) OptionsPath() string {
	return "/results/options"
}

func (Resource) DeletePath(id int) string {
	return fmt.Sprintf("/results/delete/%d", id)
}

func (Resource) ShowPath(id int) string {
	return fmt.Sprintf("/results/show/%d", id)
}

// NewDraft leaves the student to pick: only admins open the results form.
func (Resource) NewDraft(user.User) Draft {
	return Draft{}
}

func (Resource) DraftFrom(r Result) Draft {
	return Draft{
		CourseID: panel.RefID(r.CourseID, r.Course),
		UserID:   panel.RefID(r.UserID, r.User),
		TestNo:   r.TestNo,
		Grade:    r.Grade,
	}
}

func (Resource) CreateRequest(d Draft) gateway.Request {
	return gateway.Request{Method: http.MethodPost, Path: "/results/store", Body: d}
}

func (Resource) UpdateRequest(id int, d Draft) gateway.Request {
	return gateway.Request{Method: http.MethodPut, Path: fmt.Sprintf("/results/update/%d", id), Body: d}
}

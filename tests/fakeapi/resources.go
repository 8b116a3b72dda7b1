package fakeapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// AddCourse seeds a course and returns it with its id.
func (s *Server) AddCourse(c Course) Course {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c.ID = s.newID()
	s.courses = append(s.courses, c)
	return c
}

func (s *Server) AddContent(c Content) Content {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	c.ID = s.newID()
	s.contents = append(s.contents, c)
	return c
}

func (s *Server) AddAssign(a Assign) Assign {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	a.ID = s.newID()
	s.assigns = append(s.assigns, a)
	return a
}

func (s *Server) AddResult(r Result) Result {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	r.ID = s.newID()
	s.results = append(s.results, r)
	return r
}

func (s *Server) Courses() []Course {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]Course(nil), s.courses...)
}

func (s *Server) Contents() []Content {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]Content(nil), s.contents...)
}

func (s *Server) Assigns() []Assign {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]Assign(nil), s.assigns...)
}

func (s *Server) Results() []Result {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]Result(nil), s.results...)
}

// courses

func (s *Server) listCourses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.Courses())
}

func courseFromForm(ctx echo.Context, c *Course) error {
	c.Name = strings.TrimSpace(ctx.FormValue("name"))
	c.Code = strings.TrimSpace(ctx.FormValue("code"))
	if c.Name == "" || c.Code == "" {
		return validationError("The name and code fields are required.")
	}
	if status, err := strconv.Atoi(ctx.FormValue("status")); err == nil {
		c.Status = status
	}
	if fh, err := ctx.FormFile("image"); err == nil {
		c.Image = "storage/courses/" + fh.Filename
		c.ImageSize = fh.Size
	}
	return nil
}

func (s *Server) storeCourse(ctx echo.Context) error {
	c := Course{Status: 1}
	if err := courseFromForm(ctx, &c); err != nil {
		return err
	}
	s.mutex.Lock()
	for _, existing := range s.courses {
		if strings.EqualFold(existing.Code, c.Code) {
			s.mutex.Unlock()
			return validationError("The code has already been taken.")
		}
	}
	s.mutex.Unlock()
	return ctx.JSON(http.StatusCreated, s.AddCourse(c))
}

func (s *Server) updateCourse(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.courses {
		if s.courses[i].ID == id {
			c := s.courses[i]
			if err := courseFromForm(ctx, &c); err != nil {
				return err
			}
			s.courses[i] = c
			return ctx.JSON(http.StatusOK, c)
		}
	}
	return errNotFound
}

func (s *Server) deleteCourse(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.courses {
		if s.courses[i].ID == id {
			s.courses = append(s.courses[:i], s.courses[i+1:]...)
			return ctx.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
		}
	}
	return errNotFound
}

// contents

func (s *Server) listContents(ctx echo.Context) error {
	courseID, err := paramID(ctx, "courseId")
	if err != nil {
		return err
	}
	items := make([]Content, 0)
	for _, c := range s.Contents() {
		if c.CourseID == courseID {
			items = append(items, c)
		}
	}
	return ctx.JSON(http.StatusOK, items)
}

func contentFromForm(ctx echo.Context, c *Content) error {
	c.Title = strings.TrimSpace(ctx.FormValue("title"))
	if c.Title == "" {
		return validationError("The title field is required.")
	}
	if fh, err := ctx.FormFile("file"); err == nil {
		c.Path = fmt.Sprintf("storage/contents/%d/%s", c.CourseID, fh.Filename)
		c.Type = contentType(fh.Filename)
		c.Size = fh.Size
	}
	return nil
}

func (s *Server) storeContent(ctx echo.Context) error {
	courseID, err := paramID(ctx, "courseId")
	if err != nil {
		return err
	}
	c := Content{CourseID: courseID, Type: "other"}
	if err := contentFromForm(ctx, &c); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s.AddContent(c))
}

func (s *Server) updateContent(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.contents {
		if s.contents[i].ID == id {
			c := s.contents[i]
			if err := contentFromForm(ctx, &c); err != nil {
				return err
			}
			s.contents[i] = c
			return ctx.JSON(http.StatusOK, c)
		}
	}
	return errNotFound
}

func (s *Server) deleteContent(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.contents {
		if s.contents[i].ID == id {
			s.contents = append(s.contents[:i], s.contents[i+1:]...)
			return ctx.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
		}
	}
	return errNotFound
}

// lookups shared by assigns and results

func (s *Server) options(ctx echo.Context) error {
	s.mutex.Lock()
	courses := make([]Ref, 0, len(s.courses))
	for _, c := range s.courses {
		courses = append(courses, Ref{ID: c.ID, Name: c.Name, Code: c.Code})
	}
	s.mutex.Unlock()

	students := make([]Ref, 0)
	for _, u := range s.Users() {
		if u.Role == RoleStudent {
			students = append(students, Ref{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"courses": courses, "students": students})
}

// refs embeds the course and user references; callers hold the lock.
func (s *Server) refs(courseID, userID int) (*Ref, *Ref) {
	var course, usr *Ref
	for _, c := range s.courses {
		if c.ID == courseID {
			course = &Ref{ID: c.ID, Name: c.Name, Code: c.Code}
		}
	}
	if acc, ok := s.accounts[userID]; ok {
		usr = &Ref{ID: acc.ID, Name: acc.Name, Email: acc.Email}
	}
	return course, usr
}

// assigns

type assignInput struct {
	CourseID int    `json:"course_id"`
	UserID   int    `json:"user_id"`
	Date     string `json:"date"`
}

func bindAssign(ctx echo.Context) (assignInput, error) {
	var in assignInput
	if err := ctx.Bind(&in); err != nil {
		return in, validationError("Malformed request")
	}
	if in.CourseID == 0 || in.UserID == 0 {
		return in, validationError("The course_id and user_id fields are required.")
	}
	return in, nil
}

func (s *Server) listAssigns(ctx echo.Context) error {
	usr := contextUser(ctx)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	items := make([]Assign, 0, len(s.assigns))
	for _, a := range s.assigns {
		if usr.Role != RoleAdmin && a.UserID != usr.ID {
			continue
		}
		a.Course, a.User = s.refs(a.CourseID, a.UserID)
		items = append(items, a)
	}
	return ctx.JSON(http.StatusOK, items)
}

func (s *Server) storeAssign(ctx echo.Context) error {
	in, err := bindAssign(ctx)
	if err != nil {
		return err
	}
	a := s.AddAssign(Assign{CourseID: in.CourseID, UserID: in.UserID, Date: in.Date})
	return ctx.JSON(http.StatusCreated, a)
}

func (s *Server) updateAssign(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	in, err := bindAssign(ctx)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.assigns {
		if s.assigns[i].ID == id {
			s.assigns[i].CourseID, s.assigns[i].UserID, s.assigns[i].Date = in.CourseID, in.UserID, in.Date
			return ctx.JSON(http.StatusOK, s.assigns[i])
		}
	}
	return errNotFound
}

func (s *Server) deleteAssign(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.assigns {
		if s.assigns[i].ID == id {
			s.assigns = append(s.assigns[:i], s.assigns[i+1:]...)
			return ctx.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
		}
	}
	return errNotFound
}

// results

type resultInput struct {
	CourseID int    `json:"course_id"`
	UserID   int    `json:"user_id"`
	TestNo   int    `json:"test_no"`
	Grade    string `json:"grade"`
}

func bindResult(ctx echo.Context) (resultInput, error) {
	var in resultInput
	if err := ctx.Bind(&in); err != nil {
		return in, validationError("Malformed request")
	}
	if in.CourseID == 0 || in.UserID == 0 || in.TestNo == 0 || in.Grade == "" {
		return in, validationError("All fields are required.")
	}
	return in, nil
}

func (s *Server) listResults(ctx echo.Context) error {
	usr := contextUser(ctx)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	items := make([]Result, 0, len(s.results))
	for _, r := range s.results {
		if usr.Role != RoleAdmin && r.UserID != usr.ID {
			continue
		}
		r.Course, r.User = s.refs(r.CourseID, r.UserID)
		items = append(items, r)
	}
	return ctx.JSON(http.StatusOK, items)
}

func (s *Server) showResult(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	usr := contextUser(ctx)
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, r := range s.results {
		if r.ID != id {
			continue
		}
		if usr.Role != RoleAdmin && r.UserID != usr.ID {
			return errForbidden
		}
		r.Course, r.User = s.refs(r.CourseID, r.UserID)
		return ctx.JSON(http.StatusOK, r)
	}
	return errNotFound
}

func (s *Server) storeResult(ctx echo.Context) error {
	in, err := bindResult(ctx)
	if err != nil {
		return err
	}
	r := s.AddResult(Result{CourseID: in.CourseID, UserID: in.UserID, TestNo: in.TestNo, Grade: in.Grade})
	return ctx.JSON(http.StatusCreated, r)
}

func (s *Server) updateResult(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	in, err := bindResult(ctx)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.results {
		if s.results[i].ID == id {
			r := &s.results[i]
			r.CourseID, r.UserID, r.TestNo, r.Grade = in.CourseID, in.UserID, in.TestNo, in.Grade
			return ctx.JSON(http.StatusOK, *r)
		}
	}
	return errNotFound
}

func (s *Server) deleteResult(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.results {
		if s.results[i].ID == id {
			s.results = append(s.results[:i], s.results[i+1:]...)
			return ctx.JSON(http.StatusOK, echo.Map{"message": "Deleted"})
		}
	}
	return errNotFound
}

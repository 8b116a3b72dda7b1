// Package fakeapi is an in-memory rendition of the course-management backend
// for tests. It speaks the same routes, bearer tokens, `_method` override and
// `{"message": ...}` error bodies as the real one.
package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleLecture = "lecture"
)

type (
	User struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}

	Ref struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Code  string `json:"code,omitempty"`
		Email string `json:"email,omitempty"`
	}

	Course struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		Code      string `json:"code"`
		Status    int    `json:"status"`
		Image     string `json:"image"`
		ImageSize int64  `json:"-"` // bytes received for the image part
	}

	Content struct {
		ID           int    `json:"id"`
		CourseID     int    `json:"course_id"`
		Title        string `json:"title"`
		Type         string `json:"type"`
		Path         string `json:"path"`
		ContentURL   string `json:"content_url"`
		ThumbnailURL string `json:"thumbnail_url"`
		Size         int64  `json:"-"` // bytes received for the file part
	}

	Assign struct {
		ID       int    `json:"id"`
		CourseID int    `json:"course_id"`
		UserID   int    `json:"user_id"`
		Date     string `json:"date"`
		Course   *Ref   `json:"course,omitempty"`
		User     *Ref   `json:"user,omitempty"`
	}

	Result struct {
		ID       int    `json:"id"`
		CourseID int    `json:"course_id"`
		UserID   int    `json:"user_id"`
		TestNo   int    `json:"test_no"`
		Grade    string `json:"grade"`
		Course   *Ref   `json:"course,omitempty"`
		User     *Ref   `json:"user,omitempty"`
	}

	// Call is a request the server received.
	Call struct {
		Method string // after the `_method` override
		Path   string
		Auth   string // Authorization header
	}

	failure struct {
		method, path string
		status       int
		message      string
	}

	account struct {
		User
		hash []byte
	}

	Server struct {
		app       *echo.Echo
		secret    []byte
		expiresIn time.Duration

		mutex    sync.Mutex
		nextID   int
		accounts map[int]*account
		revoked  map[string]bool
		courses  []Course
		contents []Content
		assigns  []Assign
		results  []Result
		calls    []Call
		logins   []string // emails received by /login, as sent
		failures []failure
		latency  time.Duration
	}
)

// LoginEmails returns the emails /login was called with.
func (s *Server) LoginEmails() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]string(nil), s.logins...)
}

// New returns a server with no users and no records.
func New() *Server {
	s := &Server{
		app:       echo.New(),
		secret:    []byte("fakeapi-secret"),
		expiresIn: time.Hour,
		nextID:    1,
		accounts:  make(map[int]*account),
		revoked:   make(map[string]bool),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Logger.SetLevel(log.OFF)
	s.app.HTTPErrorHandler = httpErrorHandler

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))
	s.app.Use(s.record, s.injectFailures)

	s.app.POST("/login", s.login)
	s.app.POST("/register", s.register)

	auth := s.app.Group("", s.authenticate)
	admin := s.adminOnly

	auth.GET("/user", s.me)
	auth.POST("/logout", s.logout)

	auth.GET("/courses", s.listCourses)
	auth.POST("/courses/store", s.storeCourse, admin)
	auth.PUT("/courses/update/:id", s.updateCourse, admin)
	auth.DELETE("/courses/delete/:id", s.deleteCourse, admin)

	auth.GET("/courses/content/:courseId", s.listContents)
	auth.POST("/add-content/:courseId", s.storeContent, admin)
	auth.PUT("/update-content/:id", s.updateContent, admin)
	auth.DELETE("/delete-content/:id", s.deleteContent, admin)

	auth.GET("/assigns", s.listAssigns)
	auth.GET("/assigns/options", s.options)
	auth.POST("/assigns/store", s.storeAssign, admin)
	auth.PUT("/assigns/update/:id", s.updateAssign, admin)
	auth.DELETE("/assigns/delete/:id", s.deleteAssign, admin)

	auth.GET("/results", s.listResults)
	auth.GET("/results/options", s.options)
	auth.GET("/results/show/:id", s.showResult)
	auth.POST("/results/store", s.storeResult, admin)
	auth.PUT("/results/update/:id", s.updateResult, admin)
	auth.DELETE("/results/delete/:id", s.deleteResult, admin)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts the received requests matching method and path.
func (s *Server) CallCount(method, path string) int {
	var n int
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// FailNext makes the next request to method+path answer status with message.
// An empty message answers an empty body.
func (s *Server) FailNext(method, path string, status int, message string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failures = append(s.failures, failure{method: method, path: path, status: status, message: message})
}

// SetLatency delays every answer by d.
func (s *Server) SetLatency(d time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.latency = d
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		s.mutex.Lock()
		s.calls = append(s.calls, Call{Method: req.Method, Path: req.URL.Path, Auth: req.Header.Get(echo.HeaderAuthorization)})
		latency := s.latency
		s.mutex.Unlock()
		if latency > 0 {
			time.Sleep(latency)
		}
		return next(ctx)
	}
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		s.mutex.Lock()
		for i, f := range s.failures {
			if f.method == req.Method && f.path == req.URL.Path {
				s.failures = append(s.failures[:i], s.failures[i+1:]...)
				s.mutex.Unlock()
				if f.message == "" {
					return ctx.NoContent(f.status)
				}
				return echo.NewHTTPError(f.status, f.message)
			}
		}
		s.mutex.Unlock()
		return next(ctx)
	}
}

// httpErrorHandler answers every error as `{"message": ...}`.
func httpErrorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	if herr, ok := err.(*echo.HTTPError); ok {
		code = herr.Code
		if m, ok := herr.Message.(string); ok {
			message = m
		}
	}
	if ctx.Response().Committed {
		return
	}
	if err := ctx.JSON(code, echo.Map{"message": message}); err != nil {
		ctx.Echo().Logger.Error(err)
	}
}

func (s *Server) newID() int {
	id := s.nextID
	s.nextID++
	return id
}

func paramID(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, errNotFound
	}
	return id, nil
}

func contentType(filename string) string {
	switch ext := strings.ToLower(filename[strings.LastIndex(filename, ".")+1:]); ext {
	case "png", "jpg", "jpeg", "gif", "webp":
		return "image"
	case "mp4", "webm", "mov":
		return "video"
	case "pdf":
		return "pdf"
	default:
		return "other"
	}
}

// Package auth implements the login and registration flows.
package auth

import (
	"context"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/nav"
	"github.com/malindutharaka300/ucms-f/core/session"
	"github.com/malindutharaka300/ucms-f/core/user"
)

const (
	loginPath    = "/login"
	registerPath = "/register"

	LoginFailedText    = "Login failed. Please check credentials."
	RegisterFailedText = "Registration failed."
)

type (
	API interface {
		Post(ctx context.Context, path string, body, result interface{}) error
	}

	Service struct {
		api        API
		store      *session.Store
		nav        nav.Navigator
		validate   *validator.Validate
		translator ut.Translator
	}

	loginResponse struct {
		AccessToken string    `json:"access_token"`
		User        user.User `json:"user"`
	}
)

func NewService(
	api API,
	store *session.Store,
	navigator nav.Navigator,
	validate *validator.Validate,
	translator ut.Translator,
) *Service {
	return &Service{
		api:        api,
		store:      store,
		nav:        navigator,
		validate:   validate,
		translator: translator,
	}
}

// Login exchanges credentials for a session and moves to the dashboard's
// default view. On failure nothing is stored and navigation is untouched;
// the returned error's user-facing text is given by core.Message(err, LoginFailedText).
func (svc *Service) Login(ctx context.Context, creds user.Credentials) (session.Session, error) {
	creds.Email = core.CleanString(creds.Email)
	if err := core.ValidateStruct(svc.validate, svc.translator, creds); err != nil {
		return session.Session{}, err
	}

	var resp loginResponse
	if err := svc.api.Post(ctx, loginPath, creds, &resp); err != nil {
		return session.Session{}, errors.Wrap(err, "logging in")
	}
	sess := session.Session{Token: resp.AccessToken, User: resp.User}
	if err := svc.store.Set(ctx, sess); err != nil {
		return session.Session{}, errors.Wrap(err, "storing session")
	}
	svc.nav.Push(nav.RouteCourses)
	return sess, nil
}

// Register creates an account and sends the user to the login entry point.
func (svc *Service) Register(ctx context.Context, reg user.Registration) error {
	reg.Name = core.CleanString(reg.Name)
	reg.Email = core.CleanString(reg.Email)
	if err := core.ValidateStruct(svc.validate, svc.translator, reg); err != nil {
		return err
	}
	if err := svc.api.Post(ctx, registerPath, reg, nil); err != nil {
		return errors.Wrap(err, "registering")
	}
	svc.nav.Push(nav.RouteLogin)
	return nil
}

package fakeapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const contextUserKey = "user"

var (
	errUnauthenticated = echo.NewHTTPError(http.StatusUnauthorized, "Unauthenticated.")
	errForbidden       = echo.NewHTTPError(http.StatusForbidden, "This action is unauthorized.")
	errNotFound        = echo.NewHTTPError(http.StatusNotFound, "Not found")
	errBadCredentials  = echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid credentials")
)

func validationError(msg string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, msg)
}

// AddUser creates an account directly, bypassing registration.
func (s *Server) AddUser(name, email, role, pwd string) User {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	usr := User{ID: s.newID(), Name: name, Email: strings.ToLower(email), Role: role}
	s.accounts[usr.ID] = &account{User: usr, hash: hash}
	return usr
}

// TokenFor issues a valid bearer token for usr.
func (s *Server) TokenFor(usr User) string {
	token, err := s.issue(usr)
	if err != nil {
		panic(err)
	}
	return token
}

// Revoke makes token unusable, as logging out does.
func (s *Server) Revoke(token string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.revoked[token] = true
}

func (s *Server) issue(usr User) (string, error) {
	now := time.Now()
	claims := jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   strconv.Itoa(usr.ID),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.expiresIn).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parse(token string) (int, error) {
	claims := new(jwt.StandardClaims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnauthenticated
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(claims.Subject)
}

// authenticate resolves the bearer token into the context user.
func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			return errUnauthenticated
		}
		id, err := s.parse(token)
		if err != nil {
			return errUnauthenticated
		}

		s.mutex.Lock()
		acc, ok := s.accounts[id]
		revoked := s.revoked[token]
		s.mutex.Unlock()
		if !ok || revoked {
			return errUnauthenticated
		}
		ctx.Set(contextUserKey, acc.User)
		ctx.Set("token", token)
		return next(ctx)
	}
}

func (s *Server) adminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if contextUser(ctx).Role != RoleAdmin {
			return errForbidden
		}
		return next(ctx)
	}
}

func contextUser(ctx echo.Context) User {
	usr, _ := ctx.Get(contextUserKey).(User)
	return usr
}

func (s *Server) login(ctx echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.Bind(&in); err != nil {
		return validationError("Malformed request")
	}

	s.mutex.Lock()
	s.logins = append(s.logins, in.Email)
	var acc *account
	for _, a := range s.accounts {
		if a.Email == strings.ToLower(in.Email) {
			acc = a
			break
		}
	}
	s.mutex.Unlock()
	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(in.Password)) != nil {
		return errBadCredentials
	}

	token, err := s.issue(acc.User)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         acc.User,
	})
}

func (s *Server) register(ctx echo.Context) error {
	var in struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Role                 string `json:"role"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := ctx.Bind(&in); err != nil {
		return validationError("Malformed request")
	}
	switch {
	case in.Name == "" || in.Email == "" || in.Password == "":
		return validationError("The name, email and password fields are required.")
	case in.Role != RoleAdmin && in.Role != RoleStudent && in.Role != RoleLecture:
		return validationError("The selected role is invalid.")
	case in.Password != in.PasswordConfirmation:
		return validationError("The password field confirmation does not match.")
	}

	s.mutex.Lock()
	for _, a := range s.accounts {
		if a.Email == strings.ToLower(in.Email) {
			s.mutex.Unlock()
			return validationError("The email has already been taken.")
		}
	}
	s.mutex.Unlock()

	usr := s.AddUser(in.Name, in.Email, in.Role, in.Password)
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Registered", "user": usr})
}

func (s *Server) me(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, contextUser(ctx))
}

func (s *Server) logout(ctx echo.Context) error {
	token, _ := ctx.Get("token").(string)
	s.Revoke(token)
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Users returns the registered users.
func (s *Server) Users() []User {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	users := make([]User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

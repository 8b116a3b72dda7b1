// Package gateway is the single point of outgoing requests to the backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/malindutharaka300/ucms-f/core"
)

type (
	// Session is where the client reads the bearer token from and what it
	// evicts when the backend rejects it.
	Session interface {
		Token() string
		Clear(ctx context.Context) error
	}

	Options struct {
		BaseURL string
		Timeout time.Duration
		// OnUnauthorized is called after a 401 answer evicted the session.
		OnUnauthorized func(ctx context.Context)
	}

	// Opener returns a fresh reader over a file's content.
	// It is called once per request, so a rejected upload can be sent again.
	Opener func() (io.ReadCloser, error)

	// File is a multipart file part.
	File struct {
		Param string
		Name  string
		Open  Opener
	}

	Request struct {
		Method string
		Path   string
		Body   interface{}       // sent as JSON
		Form   map[string]string // sent as multipart, together with Files
		Files  []File
		Result interface{} // decoded from the JSON answer
	}

	Client struct {
		http           *resty.Client
		sess           Session
		log            core.Logger
		onUnauthorized func(ctx context.Context)
	}
)

func New(opts Options, sess Session, logger core.Logger) *Client {
	c := &Client{
		sess:           sess,
		log:            logger,
		onUnauthorized: opts.OnUnauthorized,
	}
	c.http = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger})
	c.http.OnBeforeRequest(c.authenticate)
	c.http.OnAfterResponse(c.intercept)
	return c
}

// authenticate attaches the bearer token, if any, to every outgoing request.
func (c *Client) authenticate(_ *resty.Client, req *resty.Request) error {
	if token := c.sess.Token(); token != "" {
		req.SetAuthToken(token)
	}
	req.SetHeader("X-Request-Id", uuid.NewString())
	return nil
}

// intercept evicts the session when the backend rejects its token.
// Requests sent without a token, such as a failed login, are left alone.
func (c *Client) intercept(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized || resp.Request.Token == "" {
		return nil
	}
	ctx := resp.Request.Context()
	c.log.Warn("request unauthenticated, evicting session", map[string]interface{}{
		"method": resp.Request.Method,
		"url":    resp.Request.URL,
	})
	if err := c.sess.Clear(ctx); err != nil {
		c.log.Error("clearing session", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}
	return nil
}

// FileAt opens the file at path on every request.
func FileAt(path string) Opener {
	return func() (io.ReadCloser, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "opening attachment")
		}
		return f, nil
	}
}

// FileBytes serves data on every request.
func FileBytes(data []byte) Opener {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

func (c *Client) Do(ctx context.Context, r Request) error {
	req := c.http.R().SetContext(ctx)
	switch {
	case r.Form != nil || len(r.Files) > 0:
		if r.Form != nil {
			req.SetMultipartFormData(r.Form)
		}
		for _, f := range r.Files {
			rc, err := f.Open()
			if err != nil {
				return errors.Wrapf(err, "%s %s", r.Method, r.Path)
			}
			defer rc.Close()
			req.SetFileReader(f.Param, f.Name, rc)
		}
	case r.Body != nil:
		req.SetBody(r.Body)
	}

	resp, err := req.Execute(r.Method, r.Path)
	if err != nil {
		return errors.Wrapf(err, "%s %s", r.Method, r.Path)
	}
	if resp.IsError() {
		return errors.WithStack(decodeError(resp.StatusCode(), resp.Body()))
	}
	if r.Result != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), r.Result); err != nil {
			return errors.Wrapf(err, "decoding %s %s", r.Method, r.Path)
		}
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Result: result})
}

func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Result: result})
}

func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, Result: result})
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
}

// decodeError unwraps the backend's `{"message": ...}` or `{"error": ...}` payload.
func decodeError(status int, body []byte) *core.APIError {
	apiErr := &core.APIError{Status: status}
	if !gjson.ValidBytes(body) {
		return apiErr
	}
	res := gjson.ParseBytes(body)
	for _, fld := range []string{"message", "error"} {
		if v := res.Get(fld); v.Type == gjson.String && v.Str != "" {
			apiErr.Message = v.Str
			break
		}
	}
	return apiErr
}

type restyLogger struct {
	log core.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

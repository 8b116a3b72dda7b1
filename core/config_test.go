package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "defaults",
			env:  map[string]string{"ENV": ""},
			want: Config{
				Env: "DEV", AppName: "UCMS", Build: "dev", Debug: true,
				APIURL: "http://localhost:8000/api", AppURL: "http://localhost:8000",
				RequestTimeout: 15 * time.Second, StoragePath: "ucms.db",
			},
		},
		{
			name: "test env with overrides",
			env: map[string]string{
				"ENV":                 "test",
				"TEST_APIURL":         "https://ucms.test/api/",
				"TEST_APPURL":         "https://ucms.test/",
				"TEST_REQUESTTIMEOUT": "2s",
				"TEST_STORAGESECRET":  "s3cr3t",
			},
			want: Config{
				Env: "TEST", AppName: "UCMS", Build: "dev", Debug: true, TestMode: true,
				APIURL: "https://ucms.test/api", AppURL: "https://ucms.test",
				RequestTimeout: 2 * time.Second, StoragePath: "ucms.db", StorageSecret: "s3cr3t",
			},
		},
		{
			name: "prod",
			env:  map[string]string{"ENV": "prod", "PROD_ROLLBARTOKEN": "tkn"},
			want: Config{
				Env: "PROD", AppName: "UCMS", Build: "dev",
				APIURL: "http://localhost:8000/api", AppURL: "http://localhost:8000",
				RequestTimeout: 15 * time.Second, StoragePath: "ucms.db", RollbarToken: "tkn",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			conf, err := LoadConfig()
			require.NoError(t, err)
			assert.Equal(t, tt.want, *conf)
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "server message", err: &APIError{Status: 422, Message: "Code taken"}, want: "Code taken"},
		{name: "server without message", err: &APIError{Status: 500}, want: "fallback"},
		{name: "validation", err: NewValidationError(nil, FieldError{"name", "this field is required"}, FieldError{"code", "this field is required"}), want: "name: this field is required; code: this field is required"},
		{name: "other", err: ErrPermissionDenied, want: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err, "fallback"))
		})
	}
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.test/a.png", PublicURL("http://app.test", "https://cdn.test/a.png", "a.png"))
	assert.Equal(t, "http://app.test/storage/a.png", PublicURL("http://app.test/", "", "/storage/a.png"))
	assert.Empty(t, PublicURL("http://app.test", "", ""))
}

package logsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/malindutharaka300/ucms-f/core/user"
)

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZap(zap.New(core))

	usr := user.User{ID: 3, Name: "Ada", Email: "ada@uni.test"}
	logger.Warn("request unauthenticated", errors.New("401"), usr, map[string]interface{}{"method": "GET"}, 42)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "request unauthenticated", entries[0].Message)
		assert.Equal(t, "401", ctx["error"])
		assert.Equal(t, int64(3), ctx["user_id"])
		assert.Equal(t, "ada@uni.test", ctx["user_email"])
		assert.Equal(t, "GET", ctx["method"])
		assert.Equal(t, int64(42), ctx["arg3"])
	}
}

func TestNopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		l := NewNopLogger()
		l.Debug("x")
		l.Info("x")
		l.Error("x", errors.New("boom"))
	})
}

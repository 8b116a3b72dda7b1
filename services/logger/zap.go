// Package logsvc provides the core.Logger implementations.
package logsvc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/malindutharaka300/ucms-f/core"
	"github.com/malindutharaka300/ucms-f/core/user"
)

// ZapLogger writes structured logs through zap.
type ZapLogger struct {
	zl *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a development logger when debug is on and a
// production one otherwise.
func NewZapLogger(debug bool) (*ZapLogger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		zl, err = cfg.Build()
	}
	if err != nil {
		return nil, err
	}
	return &ZapLogger{zl: zl.WithOptions(zap.AddCallerSkip(1))}, nil
}

// NewZap wraps an existing zap logger.
func NewZap(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{zl: zl}
}

func (l *ZapLogger) Sync() error {
	return l.zl.Sync()
}

// fields turns the loose args of core.Logger into zap fields.
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case error:
			flds = append(flds, zap.Error(v))
		case user.User:
			flds = append(flds, zap.Int("user_id", v.ID), zap.String("user_email", v.Email))
		case map[string]interface{}:
			for k, val := range v {
				flds = append(flds, zap.Any(k, val))
			}
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), v))
		}
	}
	return flds
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) {
	l.zl.Debug(msg, fields(args)...)
}

func (l *ZapLogger) Info(msg string, args ...interface{}) {
	l.zl.Info(msg, fields(args)...)
}

func (l *ZapLogger) Warn(msg string, args ...interface{}) {
	l.zl.Warn(msg, fields(args)...)
}

func (l *ZapLogger) Error(msg string, args ...interface{}) {
	l.zl.Error(msg, fields(args)...)
}

func (l *ZapLogger) Fatal(msg string, args ...interface{}) {
	l.zl.Fatal(msg, fields(args)...)
}

// NewNopLogger discards everything.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{zl: zap.NewNop()}
}

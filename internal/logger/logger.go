// Package logger exposes a process-wide zap sugared logger shared by the
// API server and the scheduled binaries.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init configures the shared logger once for the given environment:
// JSON output in "production", a readable console encoder everywhere else.
// Later calls are no-ops.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		if env == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}

		if err != nil {
			// Logging must never take the process down.
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

// Get hands out the shared logger, lazily initializing a development one
// when Init was never called (tests, mostly).
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered entries; meant to be deferred from main.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}

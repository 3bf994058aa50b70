package wasmvalidate

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-validate/conform"
	"github.com/wippyai/wasm-validate/model"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the package logger and the loggers of the extraction
// and conformance packages. This must be called before any validation.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
	model.SetLogger(l.Named("model"))
	conform.SetLogger(l.Named("conform"))
}

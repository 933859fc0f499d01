package atmosphere

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returns false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by the package. By default nothing is logged.
// Passing nil restores the silent logger. Safe for concurrent use.
//
// Levels:
//   - [slog.LevelDebug]: per-pass diagnostics (dispatch sizes, timings)
//   - [slog.LevelInfo]: LUT recomputation and exported files
//   - [slog.LevelWarn]: recoverable problems (unreadable cache entries)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// DebugLog formats like fmt.Printf and logs at debug level.
func DebugLog(format string, args ...interface{}) {
	l := Logger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.Debug(fmt.Sprintf(format, args...))
}

var once sync.Once

// DebugLogOnce logs only the first call for the lifetime of the process.
func DebugLogOnce(format string, args ...interface{}) {
	once.Do(func() {
		DebugLog(format, args...)
	})
}

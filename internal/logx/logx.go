// Package logx holds the process-wide debug logger.
//
// Logging is off unless a debug log path is configured (TODOS_DEBUG_LOG or
// --debug-log): the TUI owns the terminal, so nothing may write to stderr while
// it runs.
package logx

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.DiscardHandler)
	closeFn func() error
)

// L returns the current logger. It never returns nil.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return l
}

// Set replaces the process logger. A nil logger restores the discard logger.
func Set(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// OpenFile appends debug lines to path and installs the logger. A file left
// open by an earlier call is closed first. The returned close func restores
// the discard logger; Close does the same for callers that did not keep it.
func OpenFile(path string) (func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	_ = Close()
	Set(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))

	var (
		once     sync.Once
		closeErr error
	)
	fn := func() error {
		once.Do(func() {
			Set(nil)
			closeErr = f.Close()
		})
		return closeErr
	}
	mu.Lock()
	closeFn = fn
	mu.Unlock()
	return fn, nil
}

// Close closes the file opened by the last OpenFile, if any, and restores the
// discard logger.
func Close() error {
	mu.Lock()
	fn := closeFn
	closeFn = nil
	mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// Package logx builds the process logger.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/junsooki/keyscreen/internal/errors"
)

// New returns a text logger writing to w. Debug enables debug records and
// source locations.
func New(w io.Writer, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Open returns the log destination: path opened for appending, or fallback
// when path is empty. The returned closer is never nil.
func Open(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == `` {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.WrapPrefix(err, `open log file`, 0)
	}
	return f, f.Close, nil
}

// IsErr logs err, one record per joined error, and reports whether it was
// non-nil.
func IsErr(err error, logger *slog.Logger, lvl slog.Level, msg string, args ...any) bool {
	if err == nil {
		return false
	}
	if logger == nil {
		return true
	}
	errs := []error{err}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		logger.Log(context.Background(), lvl, msg, append([]any{`error`, e}, args...)...)
	}
	return true
}

// Package logging configures the process-wide slog logger. The terminal
// belongs to the UI, so logs only ever go to a file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "nexus"

// Path returns the log file location under the XDG state directory.
func Path() (string, error) {
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}

// Setup points the default slog logger at the log file and returns it with
// a close function. If the file cannot be opened, logs are discarded.
func Setup(level slog.Level) (*slog.Logger, func() error) {
	w, closeFn := open()
	logger := New(w, level)
	slog.SetDefault(logger)
	return logger, closeFn
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func open() (io.Writer, func() error) {
	noop := func() error { return nil }

	logPath, err := Path()
	if err != nil {
		return io.Discard, noop
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, noop
	}
	return f, f.Close
}

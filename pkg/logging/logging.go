// Package logging configures the default slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log level and an optional rotating log file
type Options struct {
	Debug bool
	File  string // empty logs to stderr only
}

// nopCloser is returned when there is no file to close
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewFileWriter returns a size-rotated, compressed log file writer
func NewFileWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		LocalTime:  true,
		Compress:   true,
	}
}

// New builds a text logger writing to w, and to the log file when one is set.
// The returned closer must be closed before exit to flush the file.
func New(w io.Writer, opts Options) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := NewFileWriter(opts.File)
		w = io.MultiWriter(w, file)
		closer = file
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closer
}

// Setup installs the logger as the slog default
func Setup(opts Options) io.Closer {
	logger, closer := New(os.Stderr, opts)
	slog.SetDefault(logger)
	return closer
}

// Package logging builds the process logger. The TUI owns the terminal, so logs
// go to a rotated file in the data dir instead of stderr.
package logging

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const FileName = "kanban.log"

type Options struct {
	// Dir is the data dir; empty discards all output.
	Dir       string
	Level     string
	MaxSizeMB int
}

// New returns a JSON logger writing to Dir/kanban.log and a func that closes the
// underlying file.
func New(opts Options) (*logrus.Logger, func() error) {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(ParseLevel(opts.Level))

	if strings.TrimSpace(opts.Dir) == "" {
		l.SetOutput(io.Discard)
		return l, func() error { return nil }
	}
	w := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: 3,
		MaxAge:     28,
	}
	l.SetOutput(w)
	return l, w.Close
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

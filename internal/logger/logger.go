// Package logger provides the shared application logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared logrus instance. It writes JSON to stdout and,
// when a log file is configured, to a size-rotated file as well.
var Log = logrus.New()

// Options configures the shared logger.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init configures the shared logger. Safe to call once at startup.
func Init(opts Options) {
	Log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if opts.File == "" {
		Log.SetOutput(os.Stdout)
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
	Log.SetOutput(io.MultiWriter(os.Stdout, rotated))
}

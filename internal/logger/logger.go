package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"finance-tracker/internal/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It writes JSON to stdout until Init is called.
var Log = logrus.New()

// logFile is the file opened by Init, if any.
var logFile *os.File

// Init configures Log from cfg. When cfg.File is set, entries go to that file
// (created if needed) instead of stdout.
func Init(cfg config.LogConfig) error {
	if err := Close(); err != nil {
		return err
	}
	Log.SetReportCaller(true)

	switch cfg.Format {
	case "text":
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			CallerPrettyfier: callerPrettyfier,
		})
	default:
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  "2006-01-02T15:04:05Z07:00",
			CallerPrettyfier: callerPrettyfier,
		})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if cfg.File == "" {
		Log.SetOutput(os.Stdout)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	Log.SetOutput(file)
	logFile = file
	return nil
}

// Close points Log back at stdout and closes the file opened by Init.
func Close() error {
	if logFile == nil {
		return nil
	}
	Log.SetOutput(os.Stdout)
	err := logFile.Close()
	logFile = nil
	if err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}

// Discard silences the logger; tests use it to keep output clean.
func Discard() {
	Log.SetOutput(io.Discard)
}

func callerPrettyfier(f *runtime.Frame) (string, string) {
	return "", filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
}

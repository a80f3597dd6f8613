package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields type, used to pass to [Logger.WithFields].
type Fields map[string]interface{}

// Logger is the logging surface used by the preprocessing packages.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
}

// Options contains the configuration values of the logger system.
type Options struct {
	Output io.Writer
	Level  string
	JSON   bool
}

// Init configures the standard logrus logger. An empty level means info.
func Init(opt Options) error {
	level := opt.Level
	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	setupLogger(logrus.StandardLogger(), logLevel, opt)
	return nil
}

func setupLogger(logger *logrus.Logger, lvl logrus.Level, opt Options) {
	out := opt.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	if opt.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
}

// Entry is the struct on which we can call the Debug, Info, Warn, Error
// methods with the structured data accumulated.
type Entry struct {
	entry *logrus.Entry
}

// WithNamespace returns a logger with the specified nspace field.
func WithNamespace(nspace string) *Entry {
	return &Entry{logrus.WithField("nspace", nspace)}
}

// WithField adds a single field to the Entry.
func (e *Entry) WithField(key string, value interface{}) Logger {
	return &Entry{e.entry.WithField(key, value)}
}

// WithFields adds a map of fields to the Entry.
func (e *Entry) WithFields(fields Fields) Logger {
	return &Entry{e.entry.WithFields(logrus.Fields(fields))}
}

func (e *Entry) Debugf(format string, args ...interface{}) { e.entry.Debugf(format, args...) }
func (e *Entry) Infof(format string, args ...interface{})  { e.entry.Infof(format, args...) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.entry.Warnf(format, args...) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.entry.Errorf(format, args...) }

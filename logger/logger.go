package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger handles structured logging from the launcher.
type Logger struct {
	logrus *logrus.Logger
	entry  *logrus.Entry
}

// New returns a Logger with default configuration, namespaced by "ns".
// Arguments after the namespace are key-value pairs added to every message.
func New(ns string, args ...interface{}) *Logger {
	base := logrus.New()
	base.Out = os.Stderr
	f := fields(args...)
	f["ns"] = ns
	l := &Logger{logrus: base, entry: base.WithFields(f)}
	l.Configure(DefaultConfig())
	return l
}

// NewLogger returns a Logger configured from conf, namespaced by "ns".
func NewLogger(ns string, conf Config) *Logger {
	l := New(ns)
	l.Configure(conf)
	return l
}

// Sub returns a child logger with the given fields added to all messages.
func (l *Logger) Sub(args ...interface{}) *Logger {
	return &Logger{logrus: l.logrus, entry: l.entry.WithFields(fields(args...))}
}

// Configure sets the level, formatter, and output of the logger.
func (l *Logger) Configure(conf Config) {
	l.SetLevel(conf.Level)

	switch conf.Formatter {
	case "json":
		l.SetFormatter(&jsonFormatter{conf: conf.JSONFormat})

	// Default to text
	default:
		l.SetFormatter(&textFormatter{
			conf.TextFormat,
			jsonFormatter{conf: conf.JSONFormat},
		})
	}

	if conf.OutputFile != "" {
		logFile, err := os.OpenFile(
			conf.OutputFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666,
		)
		if err != nil {
			l.Error("can't open log output", "output", conf.OutputFile)
		} else {
			l.SetOutput(logFile)
		}
	}
}

// SetLevel sets the logging level from a level name.
// Unknown names fall back to "info".
func (l *Logger) SetLevel(lvl string) {
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.logrus.SetLevel(level)
}

// SetFormatter sets the formatter of the logger.
func (l *Logger) SetFormatter(f logrus.Formatter) {
	l.logrus.Formatter = f
}

// SetOutput sets the output of the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.logrus.Out = w
}

// Discard configures the logger to discard all logs.
func (l *Logger) Discard() {
	l.SetOutput(io.Discard)
}

// Debug logs a debug message.
//
// After the first argument, arguments are key-value pairs which are written
// as structured logs.
//
//	log.Debug("Some message here", "key1", value1, "key2", value2)
func (l *Logger) Debug(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Debug(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Warn(msg)
}

// Error logs an error message.
//
// Error has a two-argument version that can be used as a shortcut.
//
//	err := submit()
//	log.Error("submission failed", err)
func (l *Logger) Error(msg string, args ...interface{}) {
	defer recoverLogErr()
	l.entry.WithFields(fields(args...)).Error(msg)
}

// recoverLogErr is used to recover from any panics during logging.
// Panics aren't expected of course, but logging should never crash
// a program, so this failsafe tries to prevent those crashes.
func recoverLogErr() {
	if r := recover(); r != nil {
		fmt.Println("Recovered from logging panic", r)
	}
}

func fields(args ...interface{}) logrus.Fields {
	f := make(logrus.Fields, len(args)/2)
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			f["error"] = err
		} else {
			f["unknown"] = args[0]
		}
		return f
	}
	for i := 0; i+1 < len(args); i += 2 {
		k, ok := args[i].(string)
		if !ok {
			k = fmt.Sprint(args[i])
		}
		f[k] = args[i+1]
	}
	if len(args)%2 != 0 {
		f["unknown"] = args[len(args)-1]
	}
	return f
}

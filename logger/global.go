package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/logrusorgru/aurora"
)

var global = New("btx-launch")

// SetLevel sets the logging level for the global logger.
func SetLevel(lvl string) {
	global.SetLevel(lvl)
}

// SetOutput sets the output for the global logger.
func SetOutput(w io.Writer) {
	global.SetOutput(w)
}

// Discard discards the output for the global logger.
func Discard() {
	global.Discard()
}

// Debug logs to the global logger at the Debug level.
func Debug(msg string, args ...interface{}) {
	global.Debug(msg, args...)
}

// Info logs to the global logger at the Info level.
func Info(msg string, args ...interface{}) {
	global.Info(msg, args...)
}

// Error logs to the global logger at the Error level.
func Error(msg string, args ...interface{}) {
	global.Error(msg, args...)
}

// Configure configures the global logger.
func Configure(c Config) {
	global.Configure(c)
}

// PrintSimpleError prints out an error message with a red "ERROR:" prefix.
func PrintSimpleError(err error) {
	fmt.Fprintf(os.Stderr, "%s %s\n", aurora.Red("ERROR:"), err.Error())
}

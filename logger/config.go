package logger

import (
	"time"
)

const defaultTimestampFormat = time.RFC3339

// Config describes configuration for the logger.
type Config struct {
	Level      string
	Formatter  string
	OutputFile string
	TextFormat TextFormatConfig
	JSONFormat JSONFormatConfig
}

// TextFormatConfig describes configuration for the text formatter.
type TextFormatConfig struct {
	ForceColors      bool
	DisableColors    bool
	DisableTimestamp bool
	FullTimestamp    bool
	DisableSorting   bool
	Indent           string
	TimestampFormat  string
}

// JSONFormatConfig describes configuration for the JSON formatter.
type JSONFormatConfig struct {
	DisableTimestamp bool
	TimestampFormat  string
}

// DefaultConfig returns a Config instance with default values.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Formatter: "text",
		TextFormat: TextFormatConfig{
			FullTimestamp:   true,
			TimestampFormat: defaultTimestampFormat,
		},
	}
}

// DebugConfig returns a Config instance with the level set to "debug".
func DebugConfig() Config {
	conf := DefaultConfig()
	conf.Level = "debug"
	return conf
}

package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Encodings accepted by Config.Encoding.
const (
	ConsoleEncoding = "console"
	JSONEncoding    = "json"
)

// Config mirrors the log section of configs/config.yml.
type Config struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call decides its
// configuration; later calls return the same instance.
func Get(cfg Config) *Logger {
	once.Do(func() {
		globalLogger = New(cfg)
	})
	return globalLogger
}

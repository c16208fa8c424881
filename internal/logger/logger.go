package logger

import (
	"sync"
)

// Level names accepted in log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	appLogger *Logger
	once      sync.Once
)

// Get returns the process logger. Only the first call's level is honored.
func Get(level string) *Logger {
	once.Do(func() {
		appLogger = New(level)
	})
	return appLogger
}

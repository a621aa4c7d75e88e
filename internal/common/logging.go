package common

import (
	"io"
	"os"

	"github.com/phuslu/log"
)

// NewLogger creates a console logger at the given level
func NewLogger(level string) log.Logger {
	return log.Logger{
		Level: log.ParseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer: os.Stderr,
		},
	}
}

// NewSilentLogger creates a logger that discards all output
func NewSilentLogger() log.Logger {
	return log.Logger{
		Level:  log.PanicLevel,
		Writer: log.IOWriter{Writer: io.Discard},
	}
}

// Package logger provides the process-wide structured logger used across
// the service.
package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	instance *logrus.Logger
	once     sync.Once
)

// Init configures the global logger with the given level (e.g. "debug",
// "info", "warn", "error"). Unknown levels fall back to info.
func Init(level string) {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stdout)
		instance.SetFormatter(&logrus.JSONFormatter{})
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	instance.SetLevel(lvl)
}

// GetLogger returns the global logger, initializing it at info level on
// first use if Init was never called.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stdout)
		instance.SetFormatter(&logrus.JSONFormatter{})
		instance.SetLevel(logrus.InfoLevel)
	})
	return instance
}

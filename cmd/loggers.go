package cmd

import (
	"io"

	"github.com/grovetools/core/logging"
	"github.com/sirupsen/logrus"
)

var log = logging.NewLogger("textpatch")

// configureLogger points the component logger at out and applies the
// --verbose and --json flags on top of the grove.yml logging config.
func configureLogger(out io.Writer, debug, jsonFormat bool) {
	logger := log.Logger
	logger.SetOutput(out)
	logger.SetReportCaller(false)
	if jsonFormat {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logging.TextFormatter{Config: logging.FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	}
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
}

// getLogger returns the logrus.Logger for use with packages that expect it
func getLogger() *logrus.Logger {
	return log.Logger
}

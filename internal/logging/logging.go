// Package logging configures the process-wide structured logger.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns a stderr logger. Debug mode lowers the level and reports
// callers; the default stays quiet unless something goes wrong.
func New(debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    debug,
		Level:           level,
		Prefix:          "timecard",
	})
}

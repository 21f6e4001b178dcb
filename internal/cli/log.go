package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes to w at level. Commands fetch it back with
// log.FromContext once the root command has attached it.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timeStage starts a clock for a pipeline stage. The returned func logs
// msg with the elapsed time appended to keyvals.
func timeStage(logger *log.Logger, msg string) func(keyvals ...any) {
	start := time.Now()
	return func(keyvals ...any) {
		elapsed := time.Since(start).Round(time.Microsecond)
		logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
	}
}

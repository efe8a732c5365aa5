package lib

import (
	"io"
	"os"
	"runtime"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const LogTimeFormat = "2006-01-02T15:04:05.000"

// consoleWriter writes human logs to stderr. Stdout is reserved for the
// findings stream and must stay machine-parsable.
func consoleWriter() zerolog.ConsoleWriter {
	if runtime.GOOS == "windows" {
		return zerolog.ConsoleWriter{Out: colorable.NewColorableStderr(), TimeFormat: LogTimeFormat}
	}
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: LogTimeFormat}
}

// ZeroConsoleLog configures the global logger for pretty stderr output.
func ZeroConsoleLog() {
	log.Logger = zerolog.New(consoleWriter()).With().Timestamp().Logger()
}

// ZeroJSONLog configures the global logger for plain JSON stderr output.
func ZeroJSONLog() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// ZeroConsoleAndFileLog mirrors console logging into a file.
func ZeroConsoleAndFileLog(filename string) {
	logFile, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		ZeroConsoleLog()
		log.Error().Err(err).Str("file", filename).Msg("Error setting up log file, logging to console only")
		return
	}

	mw := io.MultiWriter(logFile, consoleWriter())
	log.Logger = zerolog.New(mw).With().Timestamp().Logger()
}

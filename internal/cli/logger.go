package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kitplummer/goa/internal/config"
	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/logging"
)

// logFileWriter holds the log file writer for cleanup purposes.
var (
	logFileWriter   io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup
	logFileWriterMu sync.Mutex     //nolint:gochecknoglobals // Protects logFileWriter
)

// zerologGlobalMu protects concurrent writes to the zerolog global logger.
// This is separate from globalLoggerMu to avoid deadlocks.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// loggerSetup holds the common components needed to create a logger.
type loggerSetup struct {
	level      zerolog.Level
	hook       zerolog.Hook
	fileWriter io.WriteCloser
	console    io.Writer
}

// prepareLoggerSetup creates the common logger components.
// The returned error is non-fatal: callers proceed with console-only logging.
func prepareLoggerSetup(verbosity int, logCfg config.LogConfig) (*loggerSetup, error) {
	setup := &loggerSetup{
		level:   selectLevel(verbosity),
		hook:    logging.NewSensitiveDataHook(),
		console: logging.NewFilteringWriter(selectOutput()),
	}

	if !logCfg.File {
		return setup, nil
	}
	fileWriter, err := createLogFileWriter(logCfg)
	if err == nil {
		setup.fileWriter = fileWriter
	}
	return setup, err
}

// buildLogger creates a zerolog.Logger from the setup and writer.
func buildLogger(setup *loggerSetup, writer io.Writer) zerolog.Logger {
	return zerolog.New(writer).Level(setup.level).Hook(setup.hook).With().Timestamp().Logger()
}

// InitLogger creates the agent logger.
//
// Log levels follow --verbosity:
//   - 0: errors only
//   - 1: informational (default)
//   - 2: debug, per-cycle diagnostics
//   - 3: trace, raw paths and command output
//
// Console output is human-readable on a TTY unless NO_COLOR is set, JSON
// otherwise. When logCfg.File is set the logger also writes to
// ~/.goa/logs/goa.log with rotation; if that file cannot be created the
// logger continues with console-only output.
func InitLogger(verbosity int, logCfg config.LogConfig) zerolog.Logger {
	setup, err := prepareLoggerSetup(verbosity, logCfg)

	var writer io.Writer
	if err != nil || setup.fileWriter == nil {
		writer = setup.console
	} else {
		logFileWriterMu.Lock()
		logFileWriter = setup.fileWriter
		logFileWriterMu.Unlock()
		writer = zerolog.MultiLevelWriter(setup.console, setup.fileWriter)
	}

	logger := buildLogger(setup, writer)
	setGlobalLogger(logger)
	if err != nil {
		logger.Warn().Err(err).Msg("log file unavailable, logging to console only")
	}
	return logger
}

// InitLoggerWithWriter creates a logger writing to w through the redacting
// filter. This is primarily intended for testing purposes.
func InitLoggerWithWriter(verbosity int, w io.Writer) zerolog.Logger {
	setup := &loggerSetup{
		level: selectLevel(verbosity),
		hook:  logging.NewSensitiveDataHook(),
	}
	logger := buildLogger(setup, logging.NewFilteringWriter(w))
	setGlobalLogger(logger)
	return logger
}

// setGlobalLogger makes the zerolog/log package and GetLogger return the
// same logger as the running command.
func setGlobalLogger(cliLogger zerolog.Logger) {
	zerologGlobalMu.Lock()
	log.Logger = cliLogger
	zerologGlobalMu.Unlock()
	storeLogger(cliLogger)
}

// CloseLogFile closes the log file writer if it was opened.
// This should be called during shutdown.
func CloseLogFile() {
	logFileWriterMu.Lock()
	defer logFileWriterMu.Unlock()
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// selectLevel maps a verbosity count to a zerolog level. Values above the
// maximum clamp to trace and negative values to error.
func selectLevel(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.ErrorLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// selectOutput determines the appropriate output writer based on
// terminal capabilities and environment settings.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser wraps a WriteCloser with sensitive data filtering.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

// Write implements io.Writer by delegating to the filtering writer.
func (fwc *filteringWriteCloser) Write(p []byte) (n int, err error) {
	return fwc.filter.Write(p)
}

// Close implements io.Closer by delegating to the underlying closer.
func (fwc *filteringWriteCloser) Close() error {
	return fwc.closer.Close()
}

// createLogFileWriter creates the rotating agent log, wrapped so credentials
// are never written to disk.
func createLogFileWriter(logCfg config.LogConfig) (io.WriteCloser, error) {
	logPath, err := config.LogFilePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lj := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    orDefault(logCfg.MaxSizeMB, constants.DefaultLogMaxSizeMB),
		MaxBackups: orDefault(logCfg.MaxBackups, constants.DefaultLogMaxBackups),
		MaxAge:     orDefault(logCfg.MaxAgeDays, constants.DefaultLogMaxAgeDays),
		Compress:   constants.LogCompress,
	}

	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(lj),
		closer: lj,
	}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

package logging

import (
	"bytes"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// LineWriter is an io.Writer that logs each complete line it receives as a
// separate event. git sideband progress uses carriage returns to redraw a
// line, so both '\r' and '\n' end a line.
type LineWriter struct {
	mu     sync.Mutex
	logger zerolog.Logger
	level  zerolog.Level
	field  string
	buf    bytes.Buffer
}

// NewLineWriter returns a LineWriter that logs at level, putting each line
// in field.
func NewLineWriter(logger zerolog.Logger, level zerolog.Level, field string) *LineWriter {
	return &LineWriter{logger: logger, level: level, field: field}
}

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		data := w.buf.Bytes()
		i := bytes.IndexAny(data, "\r\n")
		if i < 0 {
			break
		}
		line := string(data[:i])
		w.buf.Next(i + 1)
		w.emit(line)
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		line := w.buf.String()
		w.buf.Reset()
		w.emit(line)
	}
}

func (w *LineWriter) emit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	w.logger.WithLevel(w.level).Str(w.field, FilterSensitiveValue(line)).Send()
}

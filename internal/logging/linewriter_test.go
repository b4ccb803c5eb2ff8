package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		events = append(events, ev)
	}
	return events
}

func TestLineWriter_SplitsLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(zerolog.New(&buf), zerolog.DebugLevel, "progress")

	_, err := w.Write([]byte("Counting objects: 1\rCounting objects: 2\nCompress"))
	require.NoError(t, err)
	_, err = w.Write([]byte("ing objects: 100%\n\n"))
	require.NoError(t, err)

	events := decodeLines(t, buf.String())
	require.Len(t, events, 3)
	assert.Equal(t, "Counting objects: 1", events[0]["progress"])
	assert.Equal(t, "Counting objects: 2", events[1]["progress"])
	assert.Equal(t, "Compressing objects: 100%", events[2]["progress"])
	assert.Equal(t, "debug", events[0]["level"])
}

func TestLineWriter_Flush(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(zerolog.New(&buf), zerolog.InfoLevel, "stdout")

	_, err := w.Write([]byte("partial"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	w.Flush()
	events := decodeLines(t, buf.String())
	require.Len(t, events, 1)
	assert.Equal(t, "partial", events[0]["stdout"])

	buf.Reset()
	w.Flush()
	assert.Empty(t, buf.String())
}

func TestLineWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(zerolog.New(&buf).Level(zerolog.InfoLevel), zerolog.DebugLevel, "progress")

	_, err := w.Write([]byte("hidden\n"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestLineWriter_Redacts(t *testing.T) {
	var buf bytes.Buffer
	w := NewLineWriter(zerolog.New(&buf), zerolog.InfoLevel, "progress")

	_, err := w.Write([]byte("fatal: could not read https://bot:" + fakeToken() + "@example.com/r.git\n"))
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), fakeToken())
}

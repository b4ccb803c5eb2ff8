package task

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source says where the command for a cycle came from.
type Source string

// Command sources.
const (
	SourceNone       Source = "none"
	SourceConfigured Source = "configured"
	SourceMarker     Source = "marker"
)

// ReadMarker returns the first non-blank line of the marker file name in
// dir, trimmed. A missing file yields "" and no error.
func ReadMarker(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line, nil
		}
	}
	return "", sc.Err()
}

// EffectiveCommand returns the command to run this cycle: configured when
// it is non-blank, otherwise the marker file read fresh from dir.
func EffectiveCommand(configured, dir, marker string) (string, Source, error) {
	if c := strings.TrimSpace(configured); c != "" {
		return c, SourceConfigured, nil
	}
	c, err := ReadMarker(dir, marker)
	if err != nil {
		return "", SourceNone, err
	}
	if c == "" {
		return "", SourceNone, nil
	}
	return c, SourceMarker, nil
}

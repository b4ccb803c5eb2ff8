package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayBounds(t *testing.T) {
	t.Run("default delay lies within bounds", func(t *testing.T) {
		assert.GreaterOrEqual(t, DefaultDelaySeconds, MinDelaySeconds)
		assert.LessOrEqual(t, DefaultDelaySeconds, MaxDelaySeconds)
	})

	t.Run("upper bound fits an unsigned 16-bit value", func(t *testing.T) {
		assert.Equal(t, 65535, MaxDelaySeconds)
	})
}

func TestVerbosity(t *testing.T) {
	assert.Equal(t, 1, DefaultVerbosity)
	assert.Equal(t, 3, MaxVerbosity)
}

func TestProcessManagementConstants(t *testing.T) {
	assert.Equal(t, 2*time.Second, ProcessTerminationTimeout)
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitOK)
	assert.Equal(t, 1, ExitFailure)
	assert.Equal(t, 2, ExitInvalidInput)
	assert.Equal(t, 126, ExitNotExecutable)
	assert.Equal(t, 127, ExitNotFound)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, "main", DefaultBranch)
	assert.Equal(t, "origin", DefaultRemote)
	assert.Equal(t, ".goa", DefaultMarkerFile)
	assert.Equal(t, "goa_wd", ScratchDirName)
}

package colorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_RespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, Enabled())

	t.Setenv("NO_COLOR", "")
	assert.True(t, Enabled())
}

func TestApply_PassesThroughWhenDisabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "plain", Apply(StatusError, "plain"))
}

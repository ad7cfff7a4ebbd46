package stdstream

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_EmitsOneLinePerInputLine(t *testing.T) {
	src := Source(strings.NewReader("a\nb\nc\n"))
	ch, err := src(context.Background())
	require.NoError(t, err)

	var lines []string
	for l := range ch {
		lines = append(lines, l.Text)
		assert.Equal(t, "stdin", l.Source)
	}
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvuslabs/ptx/pkg/parser"
	"github.com/corvuslabs/ptx/pkg/parser/httplog"
	"github.com/corvuslabs/ptx/pkg/parser/structured"
	"github.com/corvuslabs/ptx/pkg/parser/sysloglog"
	"github.com/corvuslabs/ptx/pkg/parser/userregex"
)

func newRegistry() *parser.Registry {
	return parser.NewRegistry(httplog.New(), structured.New(), sysloglog.New())
}

func TestDetect_PicksStructuredForJSONSample(t *testing.T) {
	r := newRegistry()
	lines := []string{
		`{"level":"info","msg":"a"}`,
		`{"level":"warn","msg":"b"}`,
		`not a log line at all !!!`,
	}
	p, ok := r.Detect(lines)
	require.True(t, ok)
	assert.Equal(t, "json", p.FormatName())
}

func TestDetect_EmptySampleYieldsNoMatch(t *testing.T) {
	r := newRegistry()
	_, ok := r.Detect(nil)
	assert.False(t, ok)
}

func TestDetect_AllZeroScoresYieldsNoMatch(t *testing.T) {
	r := newRegistry()
	_, ok := r.Detect([]string{"garbage", "more garbage"})
	assert.False(t, ok)
}

func TestDetect_TieBreaksByRegistrationOrder(t *testing.T) {
	// Both parsers match every sample line, so their confidence scores tie
	// at 1.0; registration order must decide the winner (spec §4.2).
	first, err := userregex.New(userregex.Config{Name: "first", Pattern: `^(?P<msg>.+)$`})
	require.NoError(t, err)
	second, err := userregex.New(userregex.Config{Name: "second", Pattern: `^(?P<msg>.+)$`})
	require.NoError(t, err)

	r := parser.NewRegistry(first, second)
	p, ok := r.Detect([]string{"some line", "another line"})
	require.True(t, ok)
	assert.Equal(t, "first", p.FormatName())

	r2 := parser.NewRegistry(second, first)
	p2, ok := r2.Detect([]string{"some line", "another line"})
	require.True(t, ok)
	assert.Equal(t, "second", p2.FormatName())
}

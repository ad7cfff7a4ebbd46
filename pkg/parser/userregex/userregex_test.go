package userregex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NamedCapturesWithCoercion(t *testing.T) {
	p, err := New(Config{
		Name:    "custom",
		Pattern: `^(?P<level>\w+) (?P<code>\d+) (?P<ok>true|false) (?P<host>\S+)$`,
		Coerce: map[string]CoerceKind{
			"code": CoerceInt,
			"ok":   CoerceBool,
			"host": CoerceUpper,
		},
	})
	require.NoError(t, err)

	line := "WARN 42 true db-1"
	require.True(t, p.CanParse(line))

	ev, ok := p.Parse(line, "custom.log")
	require.True(t, ok)
	assert.Equal(t, "WARN", ev.Fields["level"].Str)
	assert.Equal(t, int64(42), ev.Fields["code"].Int)
	assert.True(t, ev.Fields["ok"].Bool)
	assert.Equal(t, "DB-1", ev.Fields["host"].Str)
}

func TestParse_CoercionFailureYieldsZeroValue(t *testing.T) {
	p, err := New(Config{
		Pattern: `^(?P<code>\w+)$`,
		Coerce:  map[string]CoerceKind{"code": CoerceInt},
	})
	require.NoError(t, err)

	ev, ok := p.Parse("notanumber", "x")
	require.True(t, ok)
	assert.Equal(t, int64(0), ev.Fields["code"].Int)
}

func TestParse_TimestampFieldWithLayout(t *testing.T) {
	p, err := New(Config{
		Pattern:         `^(?P<ts>\d{4}-\d{2}-\d{2}) (?P<msg>.*)$`,
		TimestampField:  "ts",
		TimestampLayout: "2006-01-02",
	})
	require.NoError(t, err)

	ev, ok := p.Parse("2025-12-04 hello", "x")
	require.True(t, ok)
	assert.NotZero(t, ev.Timestamp)
	assert.Equal(t, "hello", ev.Fields["msg"].Str)
}

func TestCanParse_NoMatch(t *testing.T) {
	p, err := New(Config{Pattern: `^ONLY (?P<x>\d+)$`})
	require.NoError(t, err)
	assert.False(t, p.CanParse("NOPE 1"))
}

func TestNew_InvalidPatternErrors(t *testing.T) {
	_, err := New(Config{Pattern: `(unterminated`})
	assert.Error(t, err)
}

package sysloglog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RFC5424(t *testing.T) {
	p := New()
	line := `<134>1 2025-12-04T10:00:00Z host app 1234 ID47 - Hi`
	require.True(t, p.CanParse(line))

	ev, ok := p.Parse(line, "syslog")
	require.True(t, ok)
	assert.Equal(t, int64(134), ev.Fields["priority"].Int)
	assert.Equal(t, "local0", ev.Fields["facility"].Str)
	assert.Equal(t, "info", ev.Fields["severity"].Str)
	assert.Equal(t, "host", ev.Fields["hostname"].Str)
	assert.Equal(t, "app", ev.Fields["appname"].Str)
	assert.Equal(t, "1234", ev.Fields["procid"].Str)
	assert.Equal(t, "ID47", ev.Fields["msgid"].Str)
	assert.Equal(t, "Hi", ev.Fields["message"].Str)
	assert.Equal(t, "rfc5424", ev.Fields["format"].Str)
	_, hasSD := ev.Get("sd")
	assert.False(t, hasSD, "dash SD is omitted, not stored as the literal '-'")
}

func TestParse_RFC5424WithStructuredData(t *testing.T) {
	p := New()
	line := `<13>1 2025-12-04T10:00:00Z host app - - [exampleSDID@32473 iut="3"] boot`
	ev, ok := p.Parse(line, "syslog")
	require.True(t, ok)
	assert.Equal(t, `[exampleSDID@32473 iut="3"]`, ev.Fields["sd"].Str)
	assert.Equal(t, "boot", ev.Fields["message"].Str)
}

func TestParse_BSD(t *testing.T) {
	now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { now = time.Now }()

	p := New()
	line := `Dec  4 10:00:00 host sshd[1234]: Accepted password for root`
	require.True(t, p.CanParse(line))

	ev, ok := p.Parse(line, "syslog")
	require.True(t, ok)
	assert.Equal(t, "host", ev.Fields["hostname"].Str)
	assert.Equal(t, "sshd", ev.Fields["program"].Str)
	assert.Equal(t, int64(1234), ev.Fields["pid"].Int)
	assert.Equal(t, "Accepted password for root", ev.Fields["message"].Str)
	assert.Equal(t, "bsd", ev.Fields["format"].Str)

	wantYear := time.Unix(ev.Timestamp, 0).UTC().Year()
	assert.Equal(t, 2026, wantYear, "BSD syslog assumes the current year")
}

func TestParse_BSDWithoutPID(t *testing.T) {
	p := New()
	line := `Jan 15 03:04:05 myhost kernel: something happened`
	ev, ok := p.Parse(line, "syslog")
	require.True(t, ok)
	assert.Equal(t, "kernel", ev.Fields["program"].Str)
	_, hasPID := ev.Get("pid")
	assert.False(t, hasPID)
}

func TestCanParse_RejectsGarbage(t *testing.T) {
	p := New()
	assert.False(t, p.CanParse("not a syslog line"))
}

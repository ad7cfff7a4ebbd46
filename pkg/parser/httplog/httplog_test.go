package httplog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CombinedWithDashBytes(t *testing.T) {
	p := New()
	line := `10.0.0.1 - - [04/Dec/2025:10:00:00 +0000] "HEAD /h HTTP/1.1" 204 -`
	require.True(t, p.CanParse(line))

	ev, ok := p.Parse(line, "access.log")
	require.True(t, ok)
	assert.Equal(t, int64(204), ev.Fields["status"].Int)
	assert.Equal(t, int64(0), ev.Fields["bytes"].Int)
	assert.Equal(t, "HEAD", ev.Fields["method"].Str)
	assert.Equal(t, "/h", ev.Fields["path"].Str)
	assert.Equal(t, "combined", ev.Fields["format"].Str)
}

func TestParse_CombinedWithRefererAndUA(t *testing.T) {
	p := New()
	line := `192.168.1.5 - bob [04/Dec/2025:10:00:00 +0000] "GET /x HTTP/1.1" 200 512 "http://ref" "agent/1.0"`
	ev, ok := p.Parse(line, "access.log")
	require.True(t, ok)
	assert.Equal(t, "bob", ev.Fields["user"].Str)
	assert.Equal(t, int64(512), ev.Fields["bytes"].Int)
	assert.Equal(t, "http://ref", ev.Fields["referer"].Str)
	assert.Equal(t, "agent/1.0", ev.Fields["ua"].Str)
}

func TestParse_ErrorLineWithClientIP(t *testing.T) {
	p := New()
	line := `2025/12/04 10:00:01 [error] 1234#5: *9 connect() failed (111: Connection refused) while connecting, client: 10.1.1.1, server: localhost`
	require.True(t, p.CanParse(line))

	ev, ok := p.Parse(line, "error.log")
	require.True(t, ok)
	assert.Equal(t, "error", ev.Fields["level"].Str)
	assert.Equal(t, int64(1234), ev.Fields["pid"].Int)
	assert.Equal(t, int64(5), ev.Fields["tid"].Int)
	assert.Equal(t, int64(9), ev.Fields["conn"].Int)
	assert.Equal(t, "10.1.1.1", ev.Fields["client_ip"].Str)
	assert.Equal(t, "error", ev.Fields["format"].Str)
}

func TestCanParse_RejectsGarbage(t *testing.T) {
	p := New()
	assert.False(t, p.CanParse("this is not a log line at all"))
}

package structured

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FlattensNestedObject(t *testing.T) {
	p := New()
	line := `{"req":{"m":"GET","path":"/x"},"status":200}`
	require.True(t, p.CanParse(line))

	ev, ok := p.Parse(line, "app.log")
	require.True(t, ok)
	assert.Equal(t, "GET", ev.Fields["req.m"].Str)
	assert.Equal(t, "/x", ev.Fields["req.path"].Str)
	assert.Equal(t, float64(200), ev.Fields["status"].Flt)
	assert.Equal(t, "json", ev.Fields["format"].Str)
}

func TestParse_PreservesListLeaf(t *testing.T) {
	p := New()
	line := `{"tags":["a","b","c"]}`
	ev, ok := p.Parse(line, "app.log")
	require.True(t, ok)
	require.Equal(t, 3, len(ev.Fields["tags"].List))
	assert.Equal(t, "b", ev.Fields["tags"].List[1].Str)
}

func TestParse_TimestampProbeOrder(t *testing.T) {
	p := New()
	line := `{"time":"2025-12-04T10:00:00Z","@timestamp":"2020-01-01T00:00:00Z"}`
	ev, ok := p.Parse(line, "app.log")
	require.True(t, ok)
	// "time" is probed before "@timestamp": 2025-12-04T10:00:00Z wins.
	assert.Equal(t, int64(1764842400), ev.Timestamp)
}

func TestParse_EpochIntTimestamp(t *testing.T) {
	p := New()
	line := `{"ts":1700000000}`
	ev, ok := p.Parse(line, "app.log")
	require.True(t, ok)
	assert.Equal(t, int64(1700000000), ev.Timestamp)
}

func TestCanParse_RejectsNonObjectJSON(t *testing.T) {
	p := New()
	assert.False(t, p.CanParse(`[1,2,3]`))
	assert.False(t, p.CanParse(`not json at all`))
}

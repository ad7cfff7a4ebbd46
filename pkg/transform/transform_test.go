package transform

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvuslabs/ptx/pkg/event"
)

func TestChain_AppliesStagesInOrder(t *testing.T) {
	c := NewChain(hclog.NewNullLogger())
	c.Add("double-status", func(ev event.Event) (event.Event, bool) {
		v, _ := ev.Get("status")
		out := ev.Clone()
		out.Set("status", event.Int(v.Int*2))
		return out, true
	})
	c.Add("drop-odd", func(ev event.Event) (event.Event, bool) {
		v, _ := ev.Get("status")
		return ev, v.Int%2 == 0
	})

	ev := event.New("s", 1)
	ev.Set("status", event.Int(5))
	out, ok := c.Apply(ev)
	require.True(t, ok)
	assert.Equal(t, int64(10), out.Fields["status"].Int)
}

func TestChain_PanicRecoversAsFaultPassThrough(t *testing.T) {
	c := NewChain(hclog.NewNullLogger())
	c.Add("boom", func(ev event.Event) (event.Event, bool) {
		panic("user eval blew up")
	})
	c.Add("tag", func(ev event.Event) (event.Event, bool) {
		out := ev.Clone()
		out.Set("seen", event.Bool(true))
		return out, true
	})

	ev := event.New("s", 1)
	ev.Set("x", event.Int(1))
	out, ok := c.Apply(ev)
	require.True(t, ok)
	assert.True(t, out.Fields["seen"].Bool, "chain continues past a faulted stage")
	assert.Equal(t, int64(1), out.Fields["x"].Int, "original event untouched by the faulted stage")
}

func TestExtract_KeepsOnlyNamedFields(t *testing.T) {
	ev := event.New("s", 1)
	ev.Set("a", event.Int(1))
	ev.Set("b", event.Int(2))
	out, ok := Extract([]string{"a"})(ev)
	require.True(t, ok)
	_, hasA := out.Get("a")
	_, hasB := out.Get("b")
	assert.True(t, hasA)
	assert.False(t, hasB)
}

func TestCut_SplitsIntoNamedFields(t *testing.T) {
	ev := event.New("s", 1)
	ev.Set("msg", event.Str("a b c"))
	out, ok := Cut("msg", ' ', []string{"x", "y", "z"}, true)(ev)
	require.True(t, ok)
	assert.Equal(t, "a", out.Fields["x"].Str)
	assert.Equal(t, "b", out.Fields["y"].Str)
	assert.Equal(t, "c", out.Fields["z"].Str)
	_, hasMsg := out.Get("msg")
	assert.False(t, hasMsg)
}

func TestReassign_CopiesValueAndRemovesSource(t *testing.T) {
	ev := event.New("s", 1)
	ev.Set("old_name", event.Str("v"))
	out, ok := Reassign("old_name", "new_name", true)(ev)
	require.True(t, ok)
	assert.Equal(t, "v", out.Fields["new_name"].Str)
	_, hasOld := out.Get("old_name")
	assert.False(t, hasOld)
}

func TestReassign_MissingSourceIsNoop(t *testing.T) {
	ev := event.New("s", 1)
	out, ok := Reassign("missing", "new_name", true)(ev)
	require.True(t, ok)
	_, hasNew := out.Get("new_name")
	assert.False(t, hasNew)
}

func TestDropField_RemovesField(t *testing.T) {
	ev := event.New("s", 1)
	ev.Set("a", event.Int(1))
	ev.Set("b", event.Int(2))
	out, ok := DropField("a")(ev)
	require.True(t, ok)
	_, hasA := out.Get("a")
	assert.False(t, hasA)
	assert.Equal(t, int64(2), out.Fields["b"].Int)
}

func TestDropField_MissingFieldIsNoop(t *testing.T) {
	ev := event.New("s", 1)
	ev.Set("b", event.Int(2))
	out, ok := DropField("missing")(ev)
	require.True(t, ok)
	assert.Equal(t, int64(2), out.Fields["b"].Int)
}

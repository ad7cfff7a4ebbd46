package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual_NumericStringCoercion(t *testing.T) {
	tests := map[string]struct {
		a, b     Value
		expected bool
	}{
		"string 200 vs int 200": {
			a:        Str("200"),
			b:        Int(200),
			expected: true,
		},
		"string abc vs int 200": {
			a:        Str("abc"),
			b:        Int(200),
			expected: false,
		},
		"float vs matching string": {
			a:        Float(1.5),
			b:        Str("1.5"),
			expected: true,
		},
		"two non-numeric strings": {
			a:        Str("GET"),
			b:        Str("GET"),
			expected: true,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Equal(tc.a, tc.b))
		})
	}
}

func TestCompare_Ordering(t *testing.T) {
	assert.Equal(t, -1, Compare(Int(1), Int(2)))
	assert.Equal(t, 1, Compare(Str("500"), Str("200")))
	assert.Equal(t, 0, Compare(Str("200"), Int(200)))
}

func TestFlatten_NestedMap(t *testing.T) {
	dst := map[string]Value{}
	Flatten(dst, "", Map(map[string]Value{
		"req": Map(map[string]Value{
			"method": Str("GET"),
		}),
		"status": Int(200),
	}))
	assert.Equal(t, Str("GET"), dst["req.method"])
	assert.Equal(t, Int(200), dst["status"])
}

func TestEvent_SearchText(t *testing.T) {
	e := New("nginx", 100)
	e.Raw = "raw line"
	e.Set("status", Int(200))
	txt := e.SearchText()
	assert.Contains(t, txt, "raw line")
	assert.Contains(t, txt, "status=200")
}

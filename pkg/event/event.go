// Package event provides the uniform record type that every parser emits
// and every query operates on.
package event

import (
	"sort"
	"strings"
	"time"
)

// Event is a normalized log record produced by a Parser. Callers should
// treat an Event as immutable once emitted; the executor never mutates one.
type Event struct {
	Timestamp int64
	Source    string
	Fields    map[string]Value
	Raw       string
}

// New builds an Event with a non-nil Fields map and a timestamp defaulted
// to now if ts is zero or negative.
func New(source string, ts int64) Event {
	if ts <= 0 {
		ts = time.Now().Unix()
	}
	return Event{
		Timestamp: ts,
		Source:    source,
		Fields:    map[string]Value{},
	}
}

// Set assigns a field, overwriting any existing value under name.
func (e Event) Set(name string, v Value) {
	e.Fields[name] = v
}

// Get returns the field value and whether it was present.
func (e Event) Get(name string) (Value, bool) {
	v, ok := e.Fields[name]
	return v, ok
}

// Clone produces a deep-enough copy for callers that need to hand an Event
// to a transform without risking aliasing the source's Fields map.
func (e Event) Clone() Event {
	fields := make(map[string]Value, len(e.Fields))
	for k, v := range e.Fields {
		fields[k] = v
	}
	return Event{
		Timestamp: e.Timestamp,
		Source:    e.Source,
		Fields:    fields,
		Raw:       e.Raw,
	}
}

// FieldNames returns the event's field names in sorted order, useful for
// deterministic rendering and for the "find" command's string search.
func (e Event) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SearchText renders Raw (if present) and every field's string form,
// joined by newlines, as the corpus a "find" regex is matched against.
func (e Event) SearchText() string {
	var b strings.Builder
	if e.Raw != "" {
		b.WriteString(e.Raw)
		b.WriteByte('\n')
	}
	for _, name := range e.FieldNames() {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(e.Fields[name].String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Flatten copies src into dst, turning nested maps into dotted field names
// ("request.method") and keeping lists and scalars as leaves, per the
// structured-object parser's flattening rule (spec §3, §4.5).
func Flatten(dst map[string]Value, prefix string, v Value) {
	if v.Kind == KindMap {
		for k, sub := range v.Map {
			name := k
			if prefix != "" {
				name = prefix + "." + k
			}
			Flatten(dst, name, sub)
		}
		return
	}
	name := prefix
	if name == "" {
		return
	}
	dst[name] = v
}

package transform

import (
	"strings"

	"github.com/corvuslabs/ptx/pkg/event"
)

// Extract projects an event down to only the named fields plus Timestamp,
// Source, and Raw, per the `extract --fields` command (spec §6).
func Extract(fields []string) Func {
	keep := make(map[string]bool, len(fields))
	for _, f := range fields {
		keep[f] = true
	}
	return func(ev event.Event) (event.Event, bool) {
		out := event.New(ev.Source, ev.Timestamp)
		out.Raw = ev.Raw
		for name, v := range ev.Fields {
			if keep[name] {
				out.Set(name, v)
			}
		}
		return out, true
	}
}

// Reassign copies the value at fromField to toField, optionally removing
// the source field, mirroring the teacher's Cut-collector remapping idiom
// adapted from per-token capture to whole-field renaming.
func Reassign(fromField, toField string, removeSource bool) Func {
	return func(ev event.Event) (event.Event, bool) {
		v, ok := ev.Get(fromField)
		if !ok {
			return ev, true
		}
		out := ev.Clone()
		out.Set(toField, v)
		if removeSource && toField != fromField {
			delete(out.Fields, fromField)
		}
		return out, true
	}
}

// Cut splits a string field on delim and assigns the resulting parts to
// toFields by position, extras are dropped. This is the direct descendant
// of the teacher's entries.Cut, narrowed to the common case of a fixed
// destination field list.
func Cut(field string, delim rune, toFields []string, removeSource bool) Func {
	return func(ev event.Event) (event.Event, bool) {
		v, ok := ev.Get(field)
		if !ok || v.Kind != event.KindString {
			return ev, true
		}
		parts := strings.Split(v.Str, string(delim))
		out := ev.Clone()
		for i, name := range toFields {
			if i >= len(parts) {
				break
			}
			out.Set(name, event.Str(parts[i]))
		}
		if removeSource {
			delete(out.Fields, field)
		}
		return out, true
	}
}

// DropField removes a field unconditionally, leaving the event otherwise
// untouched.
func DropField(field string) Func {
	return func(ev event.Event) (event.Event, bool) {
		if _, ok := ev.Get(field); !ok {
			return ev, true
		}
		out := ev.Clone()
		delete(out.Fields, field)
		return out, true
	}
}

package event

import "time"

// layouts are probed in order when a timestamp field holds a string and no
// more specific format is known to the caller.
var layouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp tries each known layout against s, falling back to "now"
// (spec §4: "on failure, fall back to now") and reporting false when that
// fallback was used.
func ParseTimestamp(s string) (int64, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), true
		}
	}
	return time.Now().Unix(), false
}

// ResolveTimestamp probes fields in order (spec §4.5) for a timestamp-like
// value: an integer-like scalar is used as an epoch, a string is parsed as
// ISO8601, and anything else falls through to the next field. "now" is
// returned if nothing usable is found.
func ResolveTimestamp(fields map[string]Value, names ...string) int64 {
	for _, name := range names {
		v, ok := fields[name]
		if !ok {
			continue
		}
		switch v.Kind {
		case KindInt:
			return v.Int
		case KindFloat:
			return int64(v.Flt)
		case KindString:
			if ts, ok := ParseTimestamp(v.Str); ok {
				return ts
			}
		}
	}
	return time.Now().Unix()
}

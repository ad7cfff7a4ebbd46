// Package parser defines the Parser capability (spec §4.1) and the Detector
// that selects among registered parsers for a sample of input lines (§4.2).
// Concrete formats live in the httplog, sysloglog, structured, and userregex
// subpackages.
package parser

import "github.com/corvuslabs/ptx/pkg/event"

// Parser converts raw text lines into Events. Implementations must never
// panic on malformed input: CanParse and Parse degrade to false/none.
type Parser interface {
	// FormatName is the short identifier reported by the `formats` command
	// and accepted by Registry.Lookup. It is not necessarily the value of an
	// event's "format" field, which some parsers set to a more specific
	// shape name (e.g. "combined", "rfc5424").
	FormatName() string

	// CanParse is a cheap structural check used by the Detector; it must
	// not allocate a full Event.
	CanParse(line string) bool

	// Parse converts one line into an Event tagged with sourceLabel, or
	// reports ok=false if the line cannot be parsed.
	Parse(line, sourceLabel string) (ev event.Event, ok bool)
}

// Confidence is the default scorer described in spec §4.1: the fraction of
// non-empty sample lines for which CanParse returns true.
func Confidence(p Parser, sample []string) float64 {
	var nonEmpty, matched int
	for _, line := range sample {
		if line == "" {
			continue
		}
		nonEmpty++
		if p.CanParse(line) {
			matched++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(matched) / float64(nonEmpty)
}

// ParseMany runs Parse over every line, discarding unparseable ones while
// preserving input order (spec §4.1, §5).
func ParseMany(p Parser, lines []string, sourceLabel string) []event.Event {
	out := make([]event.Event, 0, len(lines))
	for _, line := range lines {
		if ev, ok := p.Parse(line, sourceLabel); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Package userregex parses lines against a user-supplied named-capture
// regular expression, coercing captures to declared field types, per spec
// §4.6. It is the escape hatch for log shapes none of the built-in parsers
// recognize.
package userregex

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/corvuslabs/ptx/pkg/event"
)

// CoerceKind is a per-field coercion requested for a named capture.
type CoerceKind int

const (
	CoerceNone CoerceKind = iota
	CoerceInt
	CoerceFloat
	CoerceBool
	CoerceLower
	CoerceUpper
)

// ParseCoerceKind maps the config vocabulary (int|float|bool|lower|upper)
// to a CoerceKind; an unrecognized name is CoerceNone.
func ParseCoerceKind(s string) CoerceKind {
	switch strings.ToLower(s) {
	case "int":
		return CoerceInt
	case "float":
		return CoerceFloat
	case "bool":
		return CoerceBool
	case "lower":
		return CoerceLower
	case "upper":
		return CoerceUpper
	default:
		return CoerceNone
	}
}

// Parser matches a configured regex with named captures against each line.
type Parser struct {
	name            string
	re              *regexp.Regexp
	timestampField  string
	timestampLayout string
	coerce          map[string]CoerceKind
}

// Config is the construction input for a user-regex parser (spec §4.6):
// a pattern with named captures, an optional timestamp field/format, and a
// per-field coercion map.
type Config struct {
	Name            string
	Pattern         string
	TimestampField  string
	TimestampLayout string
	Coerce          map[string]CoerceKind
}

// New compiles a Config into a Parser. An invalid pattern returns an error;
// the caller decides whether to register the parser at all.
func New(cfg Config) (*Parser, error) {
	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return nil, err
	}
	name := cfg.Name
	if name == "" {
		name = "regex"
	}
	return &Parser{
		name:            name,
		re:              re,
		timestampField:  cfg.TimestampField,
		timestampLayout: cfg.TimestampLayout,
		coerce:          cfg.Coerce,
	}, nil
}

func (p *Parser) FormatName() string { return p.name }

func (p *Parser) CanParse(line string) bool {
	return p.re.MatchString(line)
}

func (p *Parser) Parse(line, sourceLabel string) (event.Event, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return event.Event{}, false
	}

	ev := event.New(sourceLabel, 0)
	ev.Raw = line

	names := p.re.SubexpNames()
	for i, name := range names {
		if i == 0 || name == "" {
			continue
		}
		ev.Set(name, coerce(p.coerce[name], m[i]))
	}

	if p.timestampField != "" {
		if fv, ok := ev.Get(p.timestampField); ok {
			if ts, ok := p.parseTimestamp(fv); ok {
				ev.Timestamp = ts
			}
		}
	}
	return ev, true
}

// parseTimestamp applies the configured layout if one was given, otherwise
// falls back to the generic probing in event.ParseTimestamp.
func (p *Parser) parseTimestamp(v event.Value) (int64, bool) {
	s := v.String()
	if p.timestampLayout != "" {
		if t, err := parseWithLayout(p.timestampLayout, s); err == nil {
			return t, true
		}
		return 0, false
	}
	return event.ParseTimestamp(s)
}

// coerce converts a raw capture string per spec §4.6: failures degrade to
// the target type's zero value rather than dropping the field.
func coerce(kind CoerceKind, raw string) event.Value {
	switch kind {
	case CoerceInt:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return event.Int(0)
		}
		return event.Int(i)
	case CoerceFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return event.Float(0)
		}
		return event.Float(f)
	case CoerceBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return event.Bool(false)
		}
		return event.Bool(b)
	case CoerceLower:
		return event.Str(strings.ToLower(raw))
	case CoerceUpper:
		return event.Str(strings.ToUpper(raw))
	default:
		return event.Str(raw)
	}
}

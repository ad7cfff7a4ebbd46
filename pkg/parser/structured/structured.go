// Package structured parses JSON-per-line input into events, flattening
// nested objects into dotted field names, per spec §4.5. It parses with
// valyala/fastjson rather than encoding/json so that per-line parsing in a
// detection sample stays allocation-light.
package structured

import (
	"github.com/valyala/fastjson"

	"github.com/corvuslabs/ptx/pkg/event"
)

// timestampFields is the fixed probe order from spec §4.5.
var timestampFields = []string{
	"timestamp", "time", "@timestamp", "ts", "datetime", "date",
	"created_at", "createdAt", "logged_at", "loggedAt",
}

// Parser implements parser.Parser for JSON-object-per-line input.
type Parser struct {
	pool fastjson.ParserPool
}

// New returns a structured Parser.
func New() *Parser { return &Parser{} }

func (*Parser) FormatName() string { return "json" }

func (p *Parser) CanParse(line string) bool {
	trimmed := skipLeadingSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	pp := p.pool.Get()
	defer p.pool.Put(pp)
	_, err := pp.Parse(line)
	return err == nil
}

func (p *Parser) Parse(line, sourceLabel string) (event.Event, bool) {
	trimmed := skipLeadingSpace(line)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return event.Event{}, false
	}

	pp := p.pool.Get()
	defer p.pool.Put(pp)
	v, err := pp.Parse(line)
	if err != nil {
		return event.Event{}, false
	}

	ev := event.New(sourceLabel, 0)
	ev.Raw = line

	flattenObject(ev.Fields, "", v)
	ev.Timestamp = event.ResolveTimestamp(ev.Fields, timestampFields...)
	ev.Set("format", event.Str("json"))
	return ev, true
}

func skipLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

// flattenObject walks a fastjson.Value, writing dotted leaf names into dst,
// matching event.Flatten's contract for the map-based decode path (spec
// §3, §4.5). Lists are preserved as list<Value> leaves, not recursed into.
func flattenObject(dst map[string]event.Value, prefix string, v *fastjson.Value) {
	if v == nil {
		return
	}
	if v.Type() == fastjson.TypeObject {
		obj := v.GetObject()
		obj.Visit(func(key []byte, sub *fastjson.Value) {
			name := string(key)
			if prefix != "" {
				name = prefix + "." + name
			}
			flattenObject(dst, name, sub)
		})
		return
	}
	if prefix == "" {
		// A top-level non-object JSON value has no field name to attach to.
		return
	}
	dst[prefix] = toValue(v)
}

func toValue(v *fastjson.Value) event.Value {
	switch v.Type() {
	case fastjson.TypeNull:
		return event.Null()
	case fastjson.TypeTrue:
		return event.Bool(true)
	case fastjson.TypeFalse:
		return event.Bool(false)
	case fastjson.TypeNumber:
		f, _ := v.Float64()
		return event.Float(f)
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return event.Str(string(b))
	case fastjson.TypeArray:
		arr := v.GetArray()
		list := make([]event.Value, len(arr))
		for i, e := range arr {
			list[i] = toValue(e)
		}
		return event.List(list)
	case fastjson.TypeObject:
		m := map[string]event.Value{}
		obj := v.GetObject()
		obj.Visit(func(key []byte, sub *fastjson.Value) {
			m[string(key)] = toValue(sub)
		})
		return event.Map(m)
	default:
		return event.Null()
	}
}

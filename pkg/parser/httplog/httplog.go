// Package httplog parses HTTP-server access (combined) and error log lines
// into events, per spec §4.3.
package httplog

import (
	"regexp"
	"strconv"
	"time"

	"github.com/corvuslabs/ptx/pkg/event"
)

// combinedPattern matches the Apache/nginx "combined" access log line:
// host ident user [time] "req" status bytes ["ref" "ua"].
var combinedPattern = regexp.MustCompile(
	`^(\S+) (\S+) (\S+) \[([^\]]+)\] "([A-Z]+) (\S+) HTTP/[\d.]+" (\d{3}) (\d+|-)(?: "([^"]*)" "([^"]*)")?`,
)

// errorPattern matches the nginx/Apache error log line:
// yyyy/MM/dd HH:MM:SS [level] pid#tid: (*conn )?message.
var errorPattern = regexp.MustCompile(
	`^(\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}) \[(\w+)\] (\d+)#(\d+): (?:\*(\d+) )?(.*)$`,
)

// clientIPPattern extracts the remote address from an error-log message of
// the form "...client: 1.2.3.4, ...".
var clientIPPattern = regexp.MustCompile(`client: ([^,]+),`)

// accessTimeLayout is the bracketed timestamp format in a combined log line.
const accessTimeLayout = "02/Jan/2006:15:04:05 -0700"

// errorTimeLayout is the timestamp format at the start of an error log line.
const errorTimeLayout = "2006/01/02 15:04:05"

// Parser implements parser.Parser for both combined access logs and error
// logs; a single instance recognizes either shape (spec §4.3).
type Parser struct{}

// New returns an httplog Parser.
func New() *Parser { return &Parser{} }

func (*Parser) FormatName() string { return "http" }

func (*Parser) CanParse(line string) bool {
	return combinedPattern.MatchString(line) || errorPattern.MatchString(line)
}

func (p *Parser) Parse(line, sourceLabel string) (event.Event, bool) {
	if m := combinedPattern.FindStringSubmatch(line); m != nil {
		return p.parseCombined(m, line, sourceLabel), true
	}
	if m := errorPattern.FindStringSubmatch(line); m != nil {
		return p.parseError(m, line, sourceLabel), true
	}
	return event.Event{}, false
}

func (p *Parser) parseCombined(m []string, line, sourceLabel string) event.Event {
	ev := event.New(sourceLabel, 0)
	if t, err := time.Parse(accessTimeLayout, m[4]); err == nil {
		ev.Timestamp = t.Unix()
	}
	ev.Raw = line

	status, _ := strconv.ParseInt(m[7], 10, 64)
	var bytes int64
	if m[8] != "-" {
		bytes, _ = strconv.ParseInt(m[8], 10, 64)
	}

	ev.Set("ip", event.Str(m[1]))
	ev.Set("ident", event.Str(m[2]))
	ev.Set("user", event.Str(m[3]))
	ev.Set("method", event.Str(m[5]))
	ev.Set("path", event.Str(m[6]))
	ev.Set("status", event.Int(status))
	ev.Set("bytes", event.Int(bytes))
	if len(m) > 9 && (m[9] != "" || m[10] != "") {
		ev.Set("referer", dashToEmpty(m[9]))
		ev.Set("ua", dashToEmpty(m[10]))
	} else {
		ev.Set("referer", event.Str(""))
		ev.Set("ua", event.Str(""))
	}
	ev.Set("format", event.Str("combined"))
	return ev
}

func (p *Parser) parseError(m []string, line, sourceLabel string) event.Event {
	ev := event.New(sourceLabel, 0)
	if t, err := time.Parse(errorTimeLayout, m[1]); err == nil {
		ev.Timestamp = t.Unix()
	}
	ev.Raw = line

	ev.Set("level", event.Str(m[2]))
	ev.Set("pid", parseIntField(m[3]))
	ev.Set("tid", parseIntField(m[4]))
	if m[5] != "" {
		ev.Set("conn", parseIntField(m[5]))
	}
	message := m[6]
	ev.Set("message", event.Str(message))
	if ipm := clientIPPattern.FindStringSubmatch(message); ipm != nil {
		ev.Set("client_ip", event.Str(ipm[1]))
	}
	ev.Set("format", event.Str("error"))
	return ev
}

func dashToEmpty(s string) event.Value {
	if s == "-" {
		return event.Str("")
	}
	return event.Str(s)
}

// parseIntField coerces a digit-only capture group to event.Int (spec §4.3,
// "numeric fields coerced to int64"). The patterns that feed this only ever
// capture \d+, but we degrade to 0 rather than panic if that ever changes.
func parseIntField(s string) event.Value {
	n, _ := strconv.ParseInt(s, 10, 64)
	return event.Int(n)
}

// Package sysloglog parses RFC5424 and BSD-style syslog lines into events,
// per spec §4.4.
package sysloglog

import (
	"regexp"
	"strconv"
	"time"

	"github.com/corvuslabs/ptx/pkg/event"
)

// facilityNames maps PRI/8 to the standard syslog facility keyword table.
var facilityNames = []string{
	"kern", "user", "mail", "daemon", "auth", "syslog", "lpr", "news",
	"uucp", "cron", "authpriv", "ftp", "ntp", "logaudit", "logalert",
	"clock", "local0", "local1", "local2", "local3", "local4", "local5",
	"local6", "local7",
}

// severityNames maps PRI%8 to the standard syslog severity keyword table.
var severityNames = []string{
	"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug",
}

func facilityName(facility int) string {
	if facility >= 0 && facility < len(facilityNames) {
		return facilityNames[facility]
	}
	return "unknown"
}

func severityName(severity int) string {
	if severity >= 0 && severity < len(severityNames) {
		return severityNames[severity]
	}
	return "unknown"
}

// rfc5424Pattern matches <PRI>VERSION TIMESTAMP HOSTNAME APPNAME PROCID MSGID SD MSG.
var rfc5424Pattern = regexp.MustCompile(
	`^<(\d{1,3})>(\d+) (\S+) (\S+) (\S+) (\S+) (\S+) (-|\[.*?\]) ?(.*)$`,
)

// bsdPattern matches "Mon  2 15:04:05 host program[pid]: message" with an
// optional pid; the colon after the program is required, the space after
// it is optional.
var bsdPattern = regexp.MustCompile(
	`^([A-Z][a-z]{2})\s+(\d{1,2}) (\d{2}:\d{2}:\d{2}) (\S+) ([^:\[\s]+)(?:\[(\d+)\])?: ?(.*)$`,
)

// now is overridable in tests so BSD's current-year assumption (spec §4.4,
// §9 open question) is deterministic to verify.
var now = time.Now

// Parser implements parser.Parser for both syslog wire formats.
type Parser struct{}

// New returns a sysloglog Parser.
func New() *Parser { return &Parser{} }

func (*Parser) FormatName() string { return "syslog" }

func (*Parser) CanParse(line string) bool {
	return rfc5424Pattern.MatchString(line) || bsdPattern.MatchString(line)
}

func (p *Parser) Parse(line, sourceLabel string) (event.Event, bool) {
	if m := rfc5424Pattern.FindStringSubmatch(line); m != nil {
		return p.parseRFC5424(m, line, sourceLabel), true
	}
	if m := bsdPattern.FindStringSubmatch(line); m != nil {
		return p.parseBSD(m, line, sourceLabel), true
	}
	return event.Event{}, false
}

func (p *Parser) parseRFC5424(m []string, line, sourceLabel string) event.Event {
	pri, _ := strconv.Atoi(m[1])
	facility := pri / 8
	severity := pri % 8

	ev := event.New(sourceLabel, 0)
	if t, err := time.Parse(time.RFC3339, m[3]); err == nil {
		ev.Timestamp = t.Unix()
	} else if t, err := time.Parse(time.RFC3339Nano, m[3]); err == nil {
		ev.Timestamp = t.Unix()
	}
	ev.Raw = line

	ev.Set("priority", event.Int(int64(pri)))
	ev.Set("facility", event.Str(facilityName(facility)))
	ev.Set("severity", event.Str(severityName(severity)))
	ev.Set("hostname", event.Str(m[4]))
	ev.Set("appname", event.Str(m[5]))
	// PROCID stays a string: RFC5424 allows it to be "-" or an arbitrary
	// NILVALUE/PRINTUSASCII token, not necessarily a decimal pid.
	ev.Set("procid", event.Str(m[6]))
	ev.Set("msgid", event.Str(m[7]))
	if m[8] != "-" {
		ev.Set("sd", event.Str(m[8]))
	}
	ev.Set("message", event.Str(m[9]))
	ev.Set("format", event.Str("rfc5424"))
	return ev
}

func (p *Parser) parseBSD(m []string, line, sourceLabel string) event.Event {
	ev := event.New(sourceLabel, 0)

	// BSD syslog carries no year; the current year is assumed (spec §4.4,
	// documented limitation in §9).
	year := now().Year()
	day := m[2]
	if len(day) == 1 {
		day = "0" + day // time.Parse wants a fixed-width day for this layout
	}
	stamp := m[1] + " " + day + " " + strconv.Itoa(year) + " " + m[3]
	if t, err := time.Parse("Jan 02 2006 15:04:05", stamp); err == nil {
		ev.Timestamp = t.Unix()
	}
	ev.Raw = line

	ev.Set("hostname", event.Str(m[4]))
	ev.Set("program", event.Str(m[5]))
	if m[6] != "" {
		pid, _ := strconv.ParseInt(m[6], 10, 64)
		ev.Set("pid", event.Int(pid))
	}
	ev.Set("message", event.Str(m[7]))
	ev.Set("format", event.Str("bsd"))
	return ev
}

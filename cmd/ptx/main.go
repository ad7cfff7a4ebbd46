// Command ptx is the reference CLI over the detect -> parse -> transform ->
// execute pipeline (spec §1, §6): query, find, extract, formats, sources.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/corvuslabs/ptx/config"
	"github.com/corvuslabs/ptx/internal/colorize"
	"github.com/corvuslabs/ptx/internal/duration"
	"github.com/corvuslabs/ptx/pkg/event"
	"github.com/corvuslabs/ptx/pkg/exec"
	"github.com/corvuslabs/ptx/pkg/parser"
	"github.com/corvuslabs/ptx/pkg/parser/httplog"
	"github.com/corvuslabs/ptx/pkg/parser/structured"
	"github.com/corvuslabs/ptx/pkg/parser/sysloglog"
	"github.com/corvuslabs/ptx/pkg/transform"
	"github.com/corvuslabs/ptx/pkg/transform/eval"
	"github.com/corvuslabs/ptx/plugin/file"
	"github.com/corvuslabs/ptx/plugin/stdstream"
	"github.com/corvuslabs/ptx/plugin/store"
	"github.com/corvuslabs/ptx/runtime"
)

// ErrUserError and ErrInternalError distinguish the two non-zero exit codes
// spec §6/§7 mandate: 1 for user error, 2 for an internal failure.
var (
	ErrUserError     = errors.New("user error")
	ErrInternalError = errors.New("internal error")
)

// nowFunc is a seam so tests can pin --since/--until resolution.
var nowFunc = time.Now

func main() {
	if len(os.Args) <= 1 {
		usage()
		os.Exit(1)
	}

	// runID correlates one invocation's log lines; it has no effect on
	// output, only on --verbose diagnostics.
	runID := uuid.New().String()
	log := hclog.New(&hclog.LoggerOptions{Name: "ptx", Level: hclog.Warn}).With("run_id", runID)

	args := os.Args[1:]
	var err error
	switch args[0] {
	case "query":
		err = doQuery(log, args[1:])
	case "find":
		err = doFind(log, args[1:])
	case "extract":
		err = doExtract(log, args[1:])
	case "formats":
		err = doFormats()
	case "sources":
		err = doSources(log)
	case "help":
		usage()
		return
	default:
		err = fmt.Errorf("%w: unrecognized command %q", ErrUserError, args[0])
	}
	if err != nil {
		exitError(err)
	}
}

func usage() {
	fmt.Print(`ptx queries log lines of mixed, auto-detected formats.

  ptx query <query-string> [files...] [flags]
  ptx find <pattern> [files...]
  ptx extract --fields a,b,c [--rename old=new,...] [--drop x,y] [files...]
  ptx formats
  ptx sources
  ptx help

query flags:
  --since <dur>        only events at or after now-dur (e.g. 15m, 2h, 1d)
  --until <dur>        only events at or before now-dur
  --format <name>      force a parser instead of auto-detecting
  --output <name>      table (default), json, yaml, or pretty
  --limit <uint>       cap the number of rows/events returned
  --eval <field=expr>  assign field from an expression before querying
  --db <path>          read from a sqlite table instead of files/stdin
  --table <name>       table name to read when --db is given
  --verbose            enable debug logging

Reads from the given files (transparently decompressing .gz) or stdin when
none are given. NO_COLOR disables ANSI colorization; PTX_CONFIG names an
optional YAML config file.
`)
}

// exitError reports err to stderr and exits 1 for a user error, 2 otherwise,
// per spec §6's exit-code contract.
func exitError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, ErrUserError) {
		os.Exit(1)
	}
	os.Exit(2)
}

func newParserRegistry() *parser.Registry {
	return parser.NewRegistry(httplog.New(), structured.New(), sysloglog.New())
}

// readLines collects raw lines from the given file paths via the runtime's
// registered file source, or from stdin if paths is empty.
func readLines(rt *runtime.Runtime, paths []string) ([]string, string, error) {
	if len(paths) == 0 {
		lines, err := rt.Source("std", "in")
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		out := make([]string, len(lines))
		for i, l := range lines {
			out[i] = l.Text
		}
		return out, "stdin", nil
	}

	var out []string
	for _, p := range paths {
		lines, err := rt.Source("file", "read", p)
		if err != nil {
			return nil, "", fmt.Errorf("%w: reading %s: %v", ErrUserError, p, err)
		}
		for _, l := range lines {
			out = append(out, l.Text)
		}
	}
	return out, strings.Join(paths, ","), nil
}

// filterByTime drops events outside [since, until]; either bound may be nil.
func filterByTime(events []event.Event, since, until *int64) []event.Event {
	if since == nil && until == nil {
		return events
	}
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if since != nil && ev.Timestamp < *since {
			continue
		}
		if until != nil && ev.Timestamp > *until {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func resolveBound(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	t, err := duration.Since(s, nowFunc())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserError, err)
	}
	unix := t.Unix()
	return &unix, nil
}

func buildChain(log hclog.Logger, evalExpr string) (*transform.Chain, error) {
	chain := transform.NewChain(log)
	if evalExpr == "" {
		return chain, nil
	}
	assignment, err := eval.CompileAssignment(evalExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: --eval %q: %v", ErrUserError, evalExpr, err)
	}
	chain.Add("eval", assignment.Apply)
	return chain, nil
}

func applyLimitOverride(res exec.Result, limit uint64) exec.Result {
	if limit == 0 {
		return res
	}
	if res.Grouped {
		if uint64(len(res.Rows)) > limit {
			res.Rows = res.Rows[:limit]
		}
		return res
	}
	if uint64(len(res.Events)) > limit {
		res.Events = res.Events[:limit]
	}
	return res
}

func doQuery(log hclog.Logger, args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	since := fs.String("since", "", "only events at or after now-dur")
	until := fs.String("until", "", "only events at or before now-dur")
	format := fs.String("format", "", "force a parser instead of detecting")
	output := fs.String("output", "", "table, json, yaml, or pretty")
	limit := fs.Uint64("limit", 0, "cap the number of rows/events returned")
	evalExpr := fs.String("eval", "", "field=expr to assign before querying")
	dbPath := fs.String("db", "", "read from a sqlite table instead of files/stdin")
	table := fs.String("table", "", "table name to read when --db is given")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUserError, err)
	}
	if *verbose {
		log.SetLevel(hclog.Debug)
	}
	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("%w: query requires a query string", ErrUserError)
	}
	queryString, files := rest[0], rest[1:]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("%w: loading config: %v", ErrInternalError, err)
	}
	if resolved, ok := cfg.ResolveAlias(queryString); ok {
		queryString = resolved
	}
	if *output == "" {
		*output = cfg.Defaults.Output
	}
	if *limit == 0 {
		*limit = cfg.Defaults.Limit
	}

	registerers := []runtime.RegisterFunc{file.Register, stdstream.Register}
	var st *store.Store
	if *dbPath != "" {
		st, err = store.Open(log, *dbPath)
		if err != nil {
			return fmt.Errorf("%w: opening --db %s: %v", ErrUserError, *dbPath, err)
		}
		defer st.Close()
	}

	rt := runtime.New(log, registerers...)
	if st != nil {
		store.Register(rt.Registry(), st)
	}
	if err := rt.Start(context.Background()); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	defer rt.Stop()

	var lines []string
	var label string
	if st != nil {
		if *table == "" {
			return fmt.Errorf("%w: --table is required with --db", ErrUserError)
		}
		rawLines, err := rt.Source("sqlite", "table", *table)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUserError, err)
		}
		lines = make([]string, len(rawLines))
		for i, l := range rawLines {
			lines[i] = l.Text
		}
		label = *table
	} else {
		lines, label, err = readLines(rt, files)
		if err != nil {
			return err
		}
	}

	chain, err := buildChain(log, *evalExpr)
	if err != nil {
		return err
	}
	pipeline := runtime.NewPipeline(newParserRegistry(), chain)

	events, err := pipeline.Ingest(lines, label, *format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserError, err)
	}

	sinceAbs, err := resolveBound(*since)
	if err != nil {
		return err
	}
	untilAbs, err := resolveBound(*until)
	if err != nil {
		return err
	}
	events = filterByTime(events, sinceAbs, untilAbs)

	result, err := pipeline.Query(queryString, events)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserError, err)
	}
	result = applyLimitOverride(result, *limit)

	rendered, err := formatResult(*output, result)
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

func doFind(log hclog.Logger, args []string) error {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	limit := fs.Uint64("limit", 0, "cap the number of matches returned")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUserError, err)
	}
	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("%w: find requires a pattern", ErrUserError)
	}
	pattern, files := rest[0], rest[1:]
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("%w: bad pattern: %v", ErrUserError, err)
	}

	rt := runtime.New(log, file.Register, stdstream.Register)
	if err := rt.Start(context.Background()); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	defer rt.Stop()

	lines, label, err := readLines(rt, files)
	if err != nil {
		return err
	}
	pipeline := runtime.NewPipeline(newParserRegistry(), transform.NewChain(log))
	events, err := pipeline.Ingest(lines, label, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserError, err)
	}

	var matched uint64
	for _, ev := range events {
		text := ev.SearchText()
		if !re.MatchString(text) {
			continue
		}
		fmt.Println(highlightMatches(re, text))
		matched++
		if *limit != 0 && matched >= *limit {
			break
		}
	}
	return nil
}

// highlightMatches wraps every regex match in text with the error color,
// a no-op when NO_COLOR disables colorization.
func highlightMatches(re *regexp.Regexp, text string) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return colorize.Apply(colorize.StatusError, m)
	})
}

func doExtract(log hclog.Logger, args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fields := fs.String("fields", "", "comma-separated field names to keep")
	rename := fs.String("rename", "", "comma-separated old=new field renames, applied before --fields")
	drop := fs.String("drop", "", "comma-separated field names to remove, applied after --fields")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUserError, err)
	}
	if *fields == "" {
		return fmt.Errorf("%w: extract requires --fields", ErrUserError)
	}
	names := strings.Split(*fields, ",")
	files := fs.Args()

	rt := runtime.New(log, file.Register, stdstream.Register)
	if err := rt.Start(context.Background()); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	defer rt.Stop()

	lines, label, err := readLines(rt, files)
	if err != nil {
		return err
	}
	chain := transform.NewChain(log)
	renames, err := parseRenames(*rename)
	if err != nil {
		return err
	}
	for _, r := range renames {
		chain.Add("rename", transform.Reassign(r.from, r.to, true))
	}
	chain.Add("extract", transform.Extract(names))
	for _, field := range splitNonEmpty(*drop) {
		chain.Add("drop", transform.DropField(field))
	}
	pipeline := runtime.NewPipeline(newParserRegistry(), chain)
	events, err := pipeline.Ingest(lines, label, "")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserError, err)
	}

	rendered, err := formatResult("table", exec.Result{Events: events})
	if err != nil {
		return err
	}
	fmt.Print(rendered)
	return nil
}

type fieldRename struct{ from, to string }

// parseRenames splits a comma-separated list of "old=new" pairs for
// extract's --rename flag.
func parseRenames(s string) ([]fieldRename, error) {
	var renames []fieldRename
	for _, pair := range splitNonEmpty(s) {
		from, to, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: --rename expects old=new, got %q", ErrUserError, pair)
		}
		renames = append(renames, fieldRename{from: from, to: to})
	}
	return renames, nil
}

// splitNonEmpty splits s on commas, dropping the result entirely when s is
// empty rather than yielding a single empty-string element.
func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func doFormats() error {
	for _, p := range newParserRegistry().Parsers() {
		fmt.Println(p.FormatName())
	}
	return nil
}

func doSources(log hclog.Logger) error {
	rt := runtime.New(log, file.Register, stdstream.Register)
	if err := rt.Start(context.Background()); err != nil {
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	defer rt.Stop()
	fmt.Print(rt.Registry().AllDocs())
	return nil
}

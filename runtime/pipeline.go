package runtime

import (
	"fmt"

	"github.com/corvuslabs/ptx/pkg/event"
	"github.com/corvuslabs/ptx/pkg/exec"
	"github.com/corvuslabs/ptx/pkg/parser"
	"github.com/corvuslabs/ptx/pkg/query"
	"github.com/corvuslabs/ptx/pkg/transform"
)

// Pipeline runs the four-stage core (spec §1): detect a format, parse
// lines into events, run them through a transform chain, then execute a
// compiled query over the result. It holds no state across calls.
type Pipeline struct {
	Parsers   *parser.Registry
	Transform *transform.Chain
}

// NewPipeline builds a Pipeline over the given parser registry and
// transform chain. A nil chain is treated as empty.
func NewPipeline(parsers *parser.Registry, chain *transform.Chain) *Pipeline {
	return &Pipeline{Parsers: parsers, Transform: chain}
}

// Ingest detects the format of lines (or uses forcedFormat if non-empty),
// parses every line into an Event, and runs the transform chain, per spec
// §2's data flow: raw lines -> Detector picks Parser -> Parser emits
// Events -> optional Transform chain.
func (p *Pipeline) Ingest(lines []string, sourceLabel, forcedFormat string) ([]event.Event, error) {
	texts := lines
	var chosen parser.Parser
	if forcedFormat != "" {
		pp, ok := p.Parsers.Lookup(forcedFormat)
		if !ok {
			return nil, fmt.Errorf("unknown format %q", forcedFormat)
		}
		chosen = pp
	} else {
		pp, ok := p.Parsers.Detect(texts)
		if !ok {
			return nil, ErrUnknownFormat
		}
		chosen = pp
	}

	events := parser.ParseMany(chosen, texts, sourceLabel)
	if p.Transform != nil {
		events = p.Transform.ApplyAll(events)
	}
	return events, nil
}

// ErrUnknownFormat is returned when detection fails to find any parser
// with a strictly positive confidence score (spec §4.2, §7).
var ErrUnknownFormat = fmt.Errorf("unknown format: detection failed")

// Query compiles queryString and executes it over events, the final two
// stages of the pipeline (spec §4.7, §4.8).
func (p *Pipeline) Query(queryString string, events []event.Event) (exec.Result, error) {
	q, err := query.Parse(queryString)
	if err != nil {
		return exec.Result{}, err
	}
	return exec.Execute(q, events), nil
}

// Run is the full pipeline in one call: detect/parse/transform the raw
// lines, then compile and execute the query over the resulting events.
func (p *Pipeline) Run(lines []string, sourceLabel, forcedFormat, queryString string) (exec.Result, error) {
	events, err := p.Ingest(lines, sourceLabel, forcedFormat)
	if err != nil {
		return exec.Result{}, err
	}
	return p.Query(queryString, events)
}

// Package transform implements the ordered per-event transform chain
// described by spec §4.9: each stage is a pure function Event -> Event, and
// a stage may drop an event by returning ok=false.
package transform

import (
	"github.com/hashicorp/go-hclog"

	"github.com/corvuslabs/ptx/pkg/event"
)

// Func is a single transform stage. Returning ok=false drops the event
// from the chain's output; the event itself is never mutated in place,
// callers should return a modified Clone().
type Func func(ev event.Event) (out event.Event, ok bool)

// Chain is an ordered list of transform stages applied to every event in
// sequence (spec §4.9).
type Chain struct {
	stages []namedFunc
	log    hclog.Logger
}

type namedFunc struct {
	name string
	fn   Func
}

// NewChain builds an empty Chain. log is named "transform" and used to
// report recovered faults (spec §4.9, §7: TransformFault is recoverable).
func NewChain(log hclog.Logger) *Chain {
	return &Chain{log: log.Named("transform")}
}

// Add appends a named stage to the end of the chain.
func (c *Chain) Add(name string, fn Func) {
	c.stages = append(c.stages, namedFunc{name: name, fn: fn})
}

// Len reports how many stages are registered.
func (c *Chain) Len() int { return len(c.stages) }

// Apply runs ev through every stage in order, stopping early if a stage
// drops the event. A stage that panics is treated as a TransformFault: the
// fault is logged and the event prior to that stage passes through
// unchanged, per spec §4.9's fault-tolerance policy.
func (c *Chain) Apply(ev event.Event) (out event.Event, ok bool) {
	cur := ev
	for _, stage := range c.stages {
		next, stageOK, recovered := c.runStage(stage, cur)
		if recovered {
			c.log.Warn("transform fault, passing event through unchanged", "stage", stage.name)
			continue
		}
		if !stageOK {
			return event.Event{}, false
		}
		cur = next
	}
	return cur, true
}

func (c *Chain) runStage(stage namedFunc, ev event.Event) (out event.Event, ok bool, recovered bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered = true
		}
	}()
	out, ok = stage.fn(ev)
	return out, ok, false
}

// ApplyAll runs the chain over a batch, preserving relative order and
// omitting dropped events, matching the same order-preservation contract
// as the parser stage (spec §5).
func (c *Chain) ApplyAll(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, ev := range events {
		if next, ok := c.Apply(ev); ok {
			out = append(out, next)
		}
	}
	return out
}

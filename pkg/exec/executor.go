package exec

import (
	"github.com/corvuslabs/ptx/pkg/event"
	"github.com/corvuslabs/ptx/pkg/query"
)

// Result is the outcome of Execute: either a flat list of events (no
// grouping was requested) or a list of aggregate rows (Grouped is true).
// Exactly one of Events or Rows is populated, per spec §4.8 step 4.
type Result struct {
	Grouped bool
	Events  []event.Event
	Rows    []map[string]event.Value
}

// Execute runs the filter -> group/aggregate -> sort -> limit pipeline
// described by spec §4.8 over events, in order, without mutating events or
// retaining any reference to it. It never returns an error: a Query that
// parsed successfully always has a well-defined execution.
func Execute(q *query.Query, events []event.Event) Result {
	filtered := filter(q.Where, events)

	if len(q.Group) == 0 && len(q.Aggs) == 0 {
		sortEvents(filtered, q.Sort)
		return Result{Events: limitEvents(filtered, q.Limit)}
	}

	rows := group(filtered, q.Group, q.Aggs)
	sortRows(rows, q.Sort)
	return Result{Grouped: true, Rows: limitRows(rows, q.Limit)}
}

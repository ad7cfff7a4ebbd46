package exec

import (
	"sort"

	"github.com/corvuslabs/ptx/pkg/event"
	"github.com/corvuslabs/ptx/pkg/query"
)

// sortEvents stably sorts ungrouped events by field, numeric-or-string per
// event.Compare, honoring direction. A missing field sorts as null, which
// compares as the empty string.
func sortEvents(events []event.Event, sc *query.SortClause) {
	if sc == nil {
		return
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, aok := events[i].Get(sc.Field)
		b, bok := events[j].Get(sc.Field)
		if !aok {
			a = event.Null()
		}
		if !bok {
			b = event.Null()
		}
		c := event.Compare(a, b)
		if sc.Dir == query.SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func limitEvents(events []event.Event, limit *uint64) []event.Event {
	if limit == nil || uint64(len(events)) <= *limit {
		return events
	}
	return events[:*limit]
}

func limitRows(rows []map[string]event.Value, limit *uint64) []map[string]event.Value {
	if limit == nil || uint64(len(rows)) <= *limit {
		return rows
	}
	return rows[:*limit]
}

package exec

import (
	"sort"

	"github.com/corvuslabs/ptx/pkg/event"
	"github.com/corvuslabs/ptx/pkg/query"
)

// accumulator tracks the running state of every requested aggregate for a
// single group, plus the group's member count for count/avg.
type accumulator struct {
	groupFields []string
	groupValues []event.Value
	n           int64
	sums        map[string]float64
	mins        map[string]event.Value
	maxs        map[string]event.Value
	haveMin     map[string]bool
	haveMax     map[string]bool
}

func newAccumulator(ev event.Event, groupFields []string) *accumulator {
	values := make([]event.Value, len(groupFields))
	for i, f := range groupFields {
		v, ok := ev.Get(f)
		if !ok {
			v = event.Null()
		}
		values[i] = v
	}
	return &accumulator{
		groupFields: groupFields,
		groupValues: values,
		sums:        map[string]float64{},
		mins:        map[string]event.Value{},
		maxs:        map[string]event.Value{},
		haveMin:     map[string]bool{},
		haveMax:     map[string]bool{},
	}
}

// add folds one member event into the accumulator, per spec §4.8 step 2's
// per-function missing-value rules: sum treats a missing or non-numeric
// field as 0; avg divides by the full group size regardless of how many
// members actually carried the field; min/max skip absent members entirely.
func (a *accumulator) add(ev event.Event, aggs []query.Agg) {
	a.n++
	for _, agg := range aggs {
		if agg.Func == query.AggCount {
			continue
		}
		fv, ok := ev.Get(agg.Field)
		if !ok {
			continue
		}
		f, numeric := fv.AsFloat()
		switch agg.Func {
		case query.AggSum, query.AggAvg:
			if numeric {
				a.sums[agg.Field] += f
			}
		case query.AggMin:
			if !a.haveMin[agg.Field] || event.Compare(fv, a.mins[agg.Field]) < 0 {
				a.mins[agg.Field] = fv
				a.haveMin[agg.Field] = true
			}
		case query.AggMax:
			if !a.haveMax[agg.Field] || event.Compare(fv, a.maxs[agg.Field]) > 0 {
				a.maxs[agg.Field] = fv
				a.haveMax[agg.Field] = true
			}
		}
	}
}

// row materializes the accumulator's group-by fields and requested
// aggregates into the flat map the spec's group-result rows use.
func (a *accumulator) row(aggs []query.Agg) map[string]event.Value {
	row := make(map[string]event.Value, len(a.groupFields)+len(aggs))
	for i, f := range a.groupFields {
		row[f] = a.groupValues[i]
	}
	for _, agg := range aggs {
		switch agg.Func {
		case query.AggCount:
			row[agg.Key()] = event.Int(a.n)
		case query.AggSum:
			row[agg.Key()] = event.Float(a.sums[agg.Field])
		case query.AggAvg:
			if a.n == 0 {
				row[agg.Key()] = event.Null()
			} else {
				row[agg.Key()] = event.Float(a.sums[agg.Field] / float64(a.n))
			}
		case query.AggMin:
			if a.haveMin[agg.Field] {
				row[agg.Key()] = a.mins[agg.Field]
			} else {
				row[agg.Key()] = event.Null()
			}
		case query.AggMax:
			if a.haveMax[agg.Field] {
				row[agg.Key()] = a.maxs[agg.Field]
			} else {
				row[agg.Key()] = event.Null()
			}
		}
	}
	return row
}

// group partitions events by the group-by fields and folds each into an
// accumulator, returning rows in first-seen group order for determinism
// (spec §5: stable, order-preserving where the query doesn't specify one).
func group(events []event.Event, groupFields []string, aggs []query.Agg) []map[string]event.Value {
	order := make([]string, 0)
	accs := make(map[string]*accumulator)
	for _, ev := range events {
		key := groupKey(ev, groupFields)
		acc, ok := accs[key]
		if !ok {
			acc = newAccumulator(ev, groupFields)
			accs[key] = acc
			order = append(order, key)
		}
		acc.add(ev, aggs)
	}
	rows := make([]map[string]event.Value, 0, len(order))
	for _, key := range order {
		rows = append(rows, accs[key].row(aggs))
	}
	return rows
}

// sortRows stably sorts group rows by field, numeric-or-string per
// event.Compare, honoring direction.
func sortRows(rows []map[string]event.Value, sc *query.SortClause) {
	if sc == nil {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i][sc.Field]
		b, bok := rows[j][sc.Field]
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

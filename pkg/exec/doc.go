// Package exec evaluates a compiled query.Query against a batch of
// event.Event values: filter, then group/aggregate, then sort, then limit
// (spec §4.8). Execute is a pure function — it never mutates its input and
// never retains a reference to a prior batch.
package exec

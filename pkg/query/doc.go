// Package query implements the filter/group/aggregate/sort/limit query
// language described in the design notes: a hand-written lexer feeding a
// recursive-descent parser that produces the typed Query AST, which
// pkg/exec then evaluates against a batch of events.
package query

package parser

import "golang.org/x/sync/errgroup"

// SampleSize is N from spec §4.2: the detector scores only the first N
// lines of input.
const SampleSize = 10

// Registry holds parsers in the fixed tie-break order spec §4.2 mandates:
// HTTP-combined, then structured-object, then syslog, then user-regex.
// Callers build one with NewRegistry and may append additional user-regex
// parsers constructed at runtime from config.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a Registry populated with parsers in priority order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: append([]Parser(nil), parsers...)}
}

// Register appends a parser to the end of the tie-break order. Used to add
// user-regex parsers built from configuration after the built-in formats.
func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
}

// Parsers returns the registered parsers in priority order. Callers must
// not mutate the returned slice.
func (r *Registry) Parsers() []Parser {
	return r.parsers
}

// Lookup returns the registered parser with the given format name, if any.
func (r *Registry) Lookup(name string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.FormatName() == name {
			return p, true
		}
	}
	return nil, false
}

// sample returns up to SampleSize non-empty-aware lines from the front of
// lines, matching the "first N" rule of spec §4.2 (empty lines are kept in
// the sample; Confidence already excludes them from its denominator).
func sample(lines []string) []string {
	if len(lines) <= SampleSize {
		return lines
	}
	return lines[:SampleSize]
}

// Detect selects the highest-confidence parser over the first SampleSize
// lines, per spec §4.2: a strictly positive score wins, ties broken by
// registration order, and an empty or all-zero sample yields ok=false.
//
// Confidence is computed concurrently, one goroutine per registered parser,
// bounded implicitly by len(r.parsers) (detection runs over at most a
// handful of formats). Concurrency only shortens wall time; the winner is
// still chosen by a single-threaded scan over results in registration
// order, so ties resolve exactly as the sequential spec describes.
func (r *Registry) Detect(lines []string) (p Parser, ok bool) {
	s := sample(lines)
	if len(s) == 0 {
		return nil, false
	}

	scores := make([]float64, len(r.parsers))
	var g errgroup.Group
	for i, candidate := range r.parsers {
		i, candidate := i, candidate
		g.Go(func() error {
			scores[i] = Confidence(candidate, s)
			return nil
		})
	}
	_ = g.Wait() // Confidence never errors; Wait only joins the goroutines.

	var best Parser
	var bestScore float64
	for i, candidate := range r.parsers {
		if scores[i] > bestScore {
			best = candidate
			bestScore = scores[i]
		}
	}
	if best == nil || bestScore <= 0 {
		return nil, false
	}
	return best, true
}

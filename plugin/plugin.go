// Package plugin defines the source collaborator contract spec §1 leaves
// external: "produces an ordered sequence of raw lines or JSON records
// tagged with a source label". Concrete collaborators (file/tail, sqlite
// table, stdin) live in the file, store, and stdstream subpackages.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrArgs is returned by a SourceFunc when its arguments are missing or malformed.
var ErrArgs = errors.New("argument error")

// Line is one raw line of input tagged with the label its source assigned
// it (a file path, a pod name, a table name, ...).
type Line struct {
	Text   string
	Source string
}

// SourceFunc produces an ordered channel of Lines given zero or more string
// arguments (e.g. a file path, a table name). The channel is closed when
// the source is exhausted or ctx is cancelled.
type SourceFunc func(ctx context.Context, args ...string) (<-chan Line, error)

// Registration collects SourceFuncs under a qualifier/class pair (e.g.
// qualifier "file", class "tail"), mirroring the teacher's plugin
// registration idiom so the `sources` command can enumerate them uniformly.
type Registration struct {
	sources map[string]map[string]SourceFunc
	docs    map[string]map[string]string
}

// NewRegistration returns an empty Registration.
func NewRegistration() *Registration {
	return &Registration{
		sources: map[string]map[string]SourceFunc{},
		docs:    map[string]map[string]string{},
	}
}

// RegisterSource adds a named source under qualifier/class.
func (r *Registration) RegisterSource(qualifier, class string, src SourceFunc) {
	if src == nil {
		panic("source is nil")
	}
	m, ok := r.sources[qualifier]
	if !ok {
		m = map[string]SourceFunc{}
		r.sources[qualifier] = m
	}
	m[class] = src
}

// DocumentSource attaches human-readable usage text to a qualifier/class pair.
func (r *Registration) DocumentSource(qualifier, class, doc string) {
	m, ok := r.docs[qualifier]
	if !ok {
		m = map[string]string{}
		r.docs[qualifier] = m
	}
	m[class] = doc
}

// Source looks up a registered source and its documentation.
func (r *Registration) Source(qualifier, class string) (SourceFunc, string, bool) {
	m, ok := r.sources[qualifier]
	if !ok {
		return nil, "", false
	}
	src, ok := m[class]
	if !ok {
		return nil, "", false
	}
	return src, r.doc(qualifier, class), true
}

func (r *Registration) doc(qualifier, class string) string {
	defaultDoc := fmt.Sprintf("%s.%s", qualifier, class)
	qualDocs, ok := r.docs[qualifier]
	if !ok {
		return defaultDoc
	}
	doc, ok := qualDocs[class]
	if !ok {
		return defaultDoc
	}
	return doc
}

// AllDocs renders every registered source's documentation, sorted by
// qualifier then class, for the `sources` introspection command (spec §6).
func (r *Registration) AllDocs() string {
	var qualifiers []string
	classesOf := map[string][]string{}
	for qual, classes := range r.sources {
		qualifiers = append(qualifiers, qual)
		var names []string
		for class := range classes {
			names = append(names, class)
		}
		sort.Strings(names)
		classesOf[qual] = names
	}
	sort.Strings(qualifiers)

	var b strings.Builder
	if len(qualifiers) == 0 {
		return "No sources registered\n"
	}
	for _, qual := range qualifiers {
		for _, class := range classesOf[qual] {
			fmt.Fprintf(&b, "%s.%s: %s\n", qual, class, r.doc(qual, class))
		}
	}
	return b.String()
}

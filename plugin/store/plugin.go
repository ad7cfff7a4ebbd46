package store

import "github.com/corvuslabs/ptx/plugin"

// Register attaches this Store's "table" source under the "sqlite" qualifier.
func Register(r *plugin.Registration, s *Store) {
	r.RegisterSource("sqlite", "table", s.Query)
	r.DocumentSource("sqlite", "table", "sqlite.table(name): read rows from an existing sqlite table, one JSON object per row (read-only)")
}

// Package store provides a read-only sqlite table source collaborator. It
// is an explicit exception to spec §1's "persistent storage" Non-goal: the
// engine neither creates nor maintains this database, it only reads an
// existing one supplied by the user as an input source, the same way a
// file or a remote shell is a source (see SPEC_FULL.md §7).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite"

	"github.com/corvuslabs/ptx/plugin"
)

// ErrBadTable guards against SQL injection through a table-name argument:
// only identifier-shaped names are accepted.
var ErrBadTable = errors.New("invalid table name")

var tablePattern = regexp.MustCompile(`^[\w\d]+(\.[\w\d]+)?$`)

// Store wraps a read-only handle onto a sqlite database.
type Store struct {
	db  *sql.DB
	log hclog.Logger
}

// Open opens filename read-only and returns a Store.
func Open(log hclog.Logger, filename string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+filename+"?mode=ro")
	if err != nil {
		return nil, err
	}
	return &Store{db: db, log: log.Named("sqlite-store")}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Query implements plugin.SourceFunc over a single required arg: the table
// name. Each row is emitted as one plugin.Line holding a JSON object, so
// the structured parser (spec §4.5) can ingest it directly.
func (s *Store) Query(ctx context.Context, args ...string) (<-chan plugin.Line, error) {
	if len(args) != 1 {
		return nil, plugin.ErrArgs
	}
	table := args[0]
	if !tablePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: %s", ErrBadTable, table)
	}

	rows, err := s.db.QueryContext(ctx, "select * from "+table)
	if err != nil {
		return nil, err
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}

	out := make(chan plugin.Line)
	go func() {
		defer close(out)
		defer rows.Close()
		for rows.Next() {
			row, err := scanRow(rows, cols)
			if err != nil {
				s.log.Warn("failed to scan row, skipping", "table", table, "error", err)
				continue
			}
			data, err := json.Marshal(row)
			if err != nil {
				s.log.Warn("failed to marshal row, skipping", "table", table, "error", err)
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- plugin.Line{Text: string(data), Source: table}:
			}
		}
	}()
	return out, nil
}

func scanRow(rows *sql.Rows, cols []string) (map[string]any, error) {
	vals := make([]any, len(cols))
	for i := range vals {
		vals[i] = new(sql.NullString)
	}
	if err := rows.Scan(vals...); err != nil {
		return nil, err
	}
	row := make(map[string]any, len(cols))
	for i, v := range vals {
		ns := v.(*sql.NullString)
		if ns.Valid {
			row[cols[i]] = ns.String
		} else {
			row[cols[i]] = nil
		}
	}
	return row, nil
}

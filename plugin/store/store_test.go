package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func seedDB(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`create table events (id integer primary key, status text, ip text)`)
	require.NoError(t, err)
	_, err = db.Exec(`insert into events (status, ip) values ('500','1.1.1.1'), ('200','2.2.2.2')`)
	require.NoError(t, err)
}

func TestQuery_EmitsOneJSONLinePerRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	seedDB(t, path)

	s, err := Open(hclog.NewNullLogger(), path)
	require.NoError(t, err)
	defer s.Close()

	ch, err := s.Query(context.Background(), "events")
	require.NoError(t, err)

	var rows []map[string]any
	for l := range ch {
		var row map[string]any
		require.NoError(t, json.Unmarshal([]byte(l.Text), &row))
		rows = append(rows, row)
		assert.Equal(t, "events", l.Source)
	}
	require.Len(t, rows, 2)
	assert.Equal(t, "500", rows[0]["status"])
}

func TestQuery_RejectsBadTableName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	seedDB(t, path)

	s, err := Open(hclog.NewNullLogger(), path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Query(context.Background(), "events; drop table events")
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestQuery_MissingArgsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	seedDB(t, path)

	s, err := Open(hclog.NewNullLogger(), path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Query(context.Background())
	assert.Error(t, err)
}

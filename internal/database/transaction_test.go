package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDB struct {
	query string
	vars  map[string]interface{}
	err   error
}

func (r *recordingDB) Connect(context.Context) error { return nil }
func (r *recordingDB) Close() error                  { return nil }
func (r *recordingDB) Ping(context.Context) error    { return nil }

func (r *recordingDB) Query(_ context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	r.query = query
	r.vars = vars
	return []interface{}{}, r.err
}

func (r *recordingDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	_, err := r.Query(ctx, query, vars)
	return nil, err
}

func (r *recordingDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := r.Query(ctx, query, vars)
	return err
}

func TestTxBuilder_NamespacesVariables(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	first := tb.Add("UPDATE user SET playlists -= $pid WHERE email = $email", map[string]interface{}{
		"pid":   "playlist:1",
		"email": "a@x.com",
	})
	second := tb.Add("DELETE $pid", map[string]interface{}{"pid": "playlist:1"})

	query, vars := tb.Build()

	assert.True(t, strings.HasPrefix(query, "BEGIN TRANSACTION;\n"))
	assert.True(t, strings.HasSuffix(query, "COMMIT TRANSACTION;"))
	assert.NotEqual(t, first["pid"], second["pid"])
	assert.Contains(t, query, "$"+first["pid"])
	assert.Contains(t, query, "$"+second["pid"])
	assert.Contains(t, query, "$"+first["email"])
	assert.Len(t, vars, 3)
	assert.Equal(t, 2, tb.Len())
}

func TestTxBuilder_PrefixNamesDoNotCollide(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	mapping := tb.Add("SELECT * FROM $p WHERE id = $pid", map[string]interface{}{
		"p":   "playlist",
		"pid": "playlist:1",
	})

	query, vars := tb.Build()

	assert.Contains(t, query, "FROM $"+mapping["p"]+" ")
	assert.Contains(t, query, "id = $"+mapping["pid"])
	assert.Equal(t, "playlist", vars[mapping["p"]])
	assert.Equal(t, "playlist:1", vars[mapping["pid"]])
}

func TestTxBuilder_EmptyBuild(t *testing.T) {
	t.Parallel()

	query, vars := NewTxBuilder().Build()
	assert.Empty(t, query)
	assert.Nil(t, vars)
}

func TestAtomicBatch_ExecuteSendsSingleTransaction(t *testing.T) {
	t.Parallel()

	db := &recordingDB{}
	batch := NewAtomicBatch().
		Add("UPDATE user SET playlists -= $pid", map[string]interface{}{"pid": "playlist:1"}).
		Add("DELETE $pid", map[string]interface{}{"pid": "playlist:1"})

	_, err := batch.Execute(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, 1, strings.Count(db.query, "BEGIN TRANSACTION"))
	assert.Len(t, db.vars, 2)
}

func TestAtomicBatch_PropagatesError(t *testing.T) {
	t.Parallel()

	db := &recordingDB{err: ErrQuery}
	_, err := NewAtomicBatch().Add("DELETE $id", map[string]interface{}{"id": "x"}).Execute(context.Background(), db)

	assert.True(t, errors.Is(err, ErrQuery))
}

func TestAtomicBatch_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	db := &recordingDB{}
	_, err := NewAtomicBatch().Execute(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, db.query)
}

func TestStatementRows(t *testing.T) {
	t.Parallel()

	results := []interface{}{
		map[string]interface{}{"status": "OK", "result": []interface{}{"a", "b"}},
		map[string]interface{}{"status": "OK", "result": map[string]interface{}{"id": "x"}},
		map[string]interface{}{"status": "OK", "result": nil},
	}

	assert.Len(t, StatementRows(results, 0), 2)
	assert.Len(t, StatementRows(results, 1), 1)
	assert.Empty(t, StatementRows(results, 2))
	assert.Empty(t, StatementRows(results, 7))
	assert.NotNil(t, StatementRows(nil, 0))
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, classifyError("Database index `user_email` already contains 'a@x.com'"), ErrDuplicate)
	assert.ErrorIs(t, classifyError("websocket: close sent"), ErrConnection)
	assert.ErrorIs(t, classifyError("Parse error"), ErrQuery)
}

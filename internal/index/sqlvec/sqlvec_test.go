package sqlvec

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVecDB(t *testing.T, ddl string, vectors [][]float32) string {
	t.Helper()
	sqlite_vec.Auto()
	path := filepath.Join(t.TempDir(), "index.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.Exec(ddl)
	require.NoError(t, err)
	for _, v := range vectors {
		blob, err := sqlite_vec.SerializeFloat32(v)
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO vec_index(embedding) VALUES(?)`, blob)
		require.NoError(t, err)
	}
	return path
}

func TestParseVec0(t *testing.T) {
	tests := []struct {
		name   string
		ddl    string
		column string
		dim    int
		ok     bool
	}{
		{"float", `CREATE VIRTUAL TABLE v USING vec0(embedding float[4])`, "embedding", 4, true},
		{"float32 with metric", `CREATE VIRTUAL TABLE v USING vec0(emb float32[768] distance_metric=cosine)`, "emb", 768, true},
		{"pk first", `CREATE VIRTUAL TABLE v USING vec0(id integer primary key, vec FLOAT[3])`, "vec", 3, true},
		{"int8 only", `CREATE VIRTUAL TABLE v USING vec0(embedding int8[4])`, "", 0, false},
		{"fts5", `CREATE VIRTUAL TABLE t USING fts5(body)`, "", 0, false},
		{"zero dim", `CREATE VIRTUAL TABLE v USING vec0(embedding float[0])`, "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			column, dim, ok := parseVec0(tt.ddl)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.column, column)
			assert.Equal(t, tt.dim, dim)
		})
	}
}

func TestOpenAndSearch(t *testing.T) {
	path := writeVecDB(t, `CREATE VIRTUAL TABLE vec_index USING vec0(embedding float[4])`, [][]float32{
		{0, 0, 0, 0},
		{60, 0, 0, 0},
		{100, 0, 0, 0},
	})

	ctx := context.Background()
	s, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Equal(t, 4, s.Dimension())
	table, column := s.Table()
	assert.Equal(t, "vec_index", table)
	assert.Equal(t, "embedding", column)

	distances, ids, err := s.SearchRaw(ctx, [][]float32{{65, 0, 0, 0}}, 5)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.Len(t, ids[0], 5)

	// rows are 0-based and nearest first; unfilled slots carry -1
	assert.Equal(t, []int64{1, 2, 0, -1, -1}, ids[0])
	assert.InDelta(t, 5.0, distances[0][0], 1e-4)
	assert.InDelta(t, 35.0, distances[0][1], 1e-4)
	assert.InDelta(t, 65.0, distances[0][2], 1e-4)
}

func TestOpenWithoutVecTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE t (id INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(context.Background(), path)
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"vec_index"`, quoteIdent("vec_index"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}

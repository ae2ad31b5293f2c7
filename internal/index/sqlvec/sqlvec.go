package sqlvec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// noNeighbor pads result slots the table could not fill.
const noNeighbor int64 = -1

var (
	vec0Decl  = regexp.MustCompile(`(?is)\bUSING\s+vec0\s*\((.*)\)`)
	floatCol  = regexp.MustCompile(`(?i)^\s*"?([A-Za-z_][A-Za-z0-9_]*)"?\s+float(?:32)?\s*\[\s*(\d+)\s*\]`)
	uriEscape = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")
)

// Store is a read-only view over the first vec0 table of a SQLite file.
// Row identifiers are rowid-1, so the first inserted vector is row 0.
type Store struct {
	db        *sql.DB
	table     string
	column    string
	dimension int
}

func Open(ctx context.Context, path string) (*Store, error) {
	// enable sqlite-vec for all future connections
	sqlite_vec.Auto()
	db, err := sql.Open("sqlite3", "file:"+uriEscape.Replace(path)+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	table, column, dim, err := discover(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, table: table, column: column, dimension: dim}, nil
}

// discover finds the vec0 table and its float vector column.
func discover(ctx context.Context, db *sql.DB) (string, string, int, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, sql FROM sqlite_master
		WHERE type = 'table' AND sql LIKE 'CREATE VIRTUAL TABLE%'
		ORDER BY rowid`)
	if err != nil {
		return "", "", 0, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var name string
		var ddl sql.NullString
		if err := rows.Scan(&name, &ddl); err != nil {
			return "", "", 0, err
		}
		column, dim, ok := parseVec0(ddl.String)
		if ok {
			return name, column, dim, nil
		}
	}
	if err := rows.Err(); err != nil {
		return "", "", 0, err
	}
	return "", "", 0, errors.New("no vec0 table with a float vector column")
}

// parseVec0 extracts the first float[N] column from a vec0 declaration.
func parseVec0(ddl string) (string, int, bool) {
	m := vec0Decl.FindStringSubmatch(ddl)
	if m == nil {
		return "", 0, false
	}
	for _, col := range strings.Split(m[1], ",") {
		c := floatCol.FindStringSubmatch(col)
		if c == nil {
			continue
		}
		dim, err := strconv.Atoi(c[2])
		if err != nil || dim <= 0 {
			return "", 0, false
		}
		return c[1], dim, true
	}
	return "", 0, false
}

func (s *Store) Dimension() int { return s.dimension }

// Table returns the vec0 table and vector column being searched.
func (s *Store) Table() (string, string) { return s.table, s.column }

func (s *Store) Close() error { return s.db.Close() }

// SearchRaw runs one KNN query per input vector. Distances come straight
// from the table's configured metric.
func (s *Store) SearchRaw(
	ctx context.Context,
	queries [][]float32,
	k int,
) ([][]float32, [][]int64, error) {
	// KNN via MATCH ... ORDER BY distance using sqlite-vec
	stmt := fmt.Sprintf(
		`SELECT rowid, distance FROM %s WHERE %s MATCH ? AND k = ? ORDER BY distance`,
		quoteIdent(s.table), quoteIdent(s.column),
	)
	distances := make([][]float32, len(queries))
	ids := make([][]int64, len(queries))
	for qi, q := range queries {
		v, err := sqlite_vec.SerializeFloat32(q)
		if err != nil {
			return nil, nil, err
		}
		d, id, err := s.knn(ctx, stmt, v, k)
		if err != nil {
			return nil, nil, err
		}
		distances[qi], ids[qi] = d, id
	}
	return distances, ids, nil
}

func (s *Store) knn(ctx context.Context, stmt string, v []byte, k int) ([]float32, []int64, error) {
	distances := make([]float32, k)
	ids := make([]int64, k)
	for i := range ids {
		ids[i] = noNeighbor
		distances[i] = math.MaxFloat32
	}
	rows, err := s.db.QueryContext(ctx, stmt, v, k)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()
	i := 0
	for rows.Next() {
		var rowid int64
		var distance float64
		if err := rows.Scan(&rowid, &distance); err != nil {
			return nil, nil, err
		}
		if i < k {
			ids[i] = rowid - 1
			distances[i] = float32(distance)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return distances, ids, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

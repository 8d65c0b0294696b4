package hbaseutils

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/challenai/hbaseutils/client"
	"github.com/challenai/hbaseutils/logger"
)

func newMemoryDB(t *testing.T) *DB {
	t.Helper()
	m := client.NewMemoryClient()
	m.CreateTable("t1", "cf1", "cf2")
	db := NewDB(m, WithLogger(logger.Nop()), WithScanBatchSize(2))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_AddThenGet(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := newMemoryDB(t)

	req.NoError(db.Add(ctx, "t1", "row1", "cf1", map[string]string{"name": "bob"}))

	entries, err := db.GetResultByTableAndRowKey(ctx, "t1", "row1")
	req.NoError(err)
	req.Len(entries, 1)

	keyPattern := regexp.MustCompile(`^row1:<cf1:name>:\d+$`)
	for k, v := range entries[0] {
		req.Regexp(keyPattern, k)
		req.Equal("bob", v)
	}
}

func TestDB_AddReturnsOneEntryPerQualifier(t *testing.T) {
	ctx := context.Background()

	tests := map[string]map[string]string{
		"single":      {"name": "bob"},
		"several":     {"name": "bob", "city": "Oslo", "age": "41"},
		"empty value": {"note": ""},
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			db := newMemoryDB(t)

			req.NoError(db.Add(ctx, "t1", "row1", "cf2", data))

			entries, err := db.GetResultByTableAndRowKey(ctx, "t1", "row1")
			req.NoError(err)
			req.Len(entries, len(data))

			got := map[string]string{}
			for _, entry := range entries {
				req.Len(entry, 1)
				for k, v := range entry {
					parts := strings.SplitN(k, ":", 4)
					req.Equal("row1", parts[0])
					req.Equal("<cf2", parts[1])
					got[strings.TrimSuffix(parts[2], ">")] = v
				}
			}
			req.Equal(data, got)
		})
	}
}

func TestDB_DeleteThenGet(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := newMemoryDB(t)

	req.NoError(db.Add(ctx, "t1", "row1", "cf1", map[string]string{"a": "1", "b": "2"}))
	req.NoError(db.Add(ctx, "t1", "row1", "cf2", map[string]string{"c": "3"}))
	req.NoError(db.Delete(ctx, "t1", "row1"))

	entries, err := db.GetResultByTableAndRowKey(ctx, "t1", "row1")
	req.NoError(err)
	req.NotNil(entries)
	req.Empty(entries)

	r, err := db.Get(ctx, "t1", "row1")
	req.NoError(err)
	req.True(r.Empty())
	req.Equal("row1", r.Row)
}

func TestDB_Validation(t *testing.T) {
	ctx := context.Background()
	db := newMemoryDB(t)

	tests := map[string]struct {
		call func() error
		kind error
	}{
		"empty data": {
			call: func() error { return db.Add(ctx, "t1", "row1", "cf1", map[string]string{}) },
			kind: ErrWrite,
		},
		"empty table name on delete": {
			call: func() error { return db.Delete(ctx, "", "row1") },
			kind: ErrDelete,
		},
		"missing table on write": {
			call: func() error { return db.Add(ctx, "t9", "row1", "cf1", map[string]string{"a": "b"}) },
			kind: ErrTableNotFound,
		},
		"missing table on read": {
			call: func() error {
				_, err := db.GetResultByTableAndRowKey(ctx, "t9", "row1")
				return err
			},
			kind: ErrTableNotFound,
		},
		"unknown family": {
			call: func() error { return db.Add(ctx, "t1", "row1", "cf9", map[string]string{"a": "b"}) },
			kind: ErrWrite,
		},
		"unsupported typed value": {
			call: func() error {
				return db.AddValues(ctx, "t1", "row1", "cf1", map[string]interface{}{"x": []int{1}})
			},
			kind: ErrWrite,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			err := tc.call()
			req.Error(err)
			req.True(errors.Is(err, tc.kind), "got %v", err)

			var e *Error
			req.True(errors.As(err, &e))
		})
	}
}

func TestDB_Table(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := newMemoryDB(t)

	tbl, err := db.Table(ctx, "t1")
	req.NoError(err)
	req.Equal("t1", tbl.Name())

	req.NoError(tbl.Put(ctx, "row1", "cf1", map[string]string{"name": "bob"}))
	entries, err := tbl.GetResultFromTableByRowKey(ctx, "row1")
	req.NoError(err)
	req.Len(entries, 1)

	_, err = db.Table(ctx, "t9")
	req.True(errors.Is(err, ErrTableNotFound))
	req.Equal("table not found: table t9", err.Error())

	_, err = db.Table(ctx, "")
	req.True(errors.Is(err, ErrTableNotFound))
}

func TestDB_TypedValues(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := newMemoryDB(t)

	req.NoError(db.AddValues(ctx, "t1", "user1", "cf1", map[string]interface{}{
		"age":    int64(41),
		"score":  2.5,
		"active": true,
		"name":   "bob",
	}))

	var (
		age    int
		score  float64
		active bool
		name   string
	)
	req.NoError(db.GetValue(ctx, "t1", "user1", "cf1", "age", &age))
	req.NoError(db.GetValue(ctx, "t1", "user1", "cf1", "score", &score))
	req.NoError(db.GetValue(ctx, "t1", "user1", "cf1", "active", &active))
	req.NoError(db.GetValue(ctx, "t1", "user1", "cf1", "name", &name))
	req.Equal(41, age)
	req.Equal(2.5, score)
	req.True(active)
	req.Equal("bob", name)

	err := db.GetValue(ctx, "t1", "user1", "cf1", "missing", &name)
	req.True(errors.Is(err, ErrCellNotFound))
	req.True(errors.Is(err, ErrRead))
}

func TestDB_ScanAndPrint(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := newMemoryDB(t)

	for _, k := range []string{"user1", "user2", "user3", "admin"} {
		req.NoError(db.Add(ctx, "t1", k, "cf1", map[string]string{"name": k}))
	}

	results, err := db.Scan(ctx, "t1", &Scan{Prefix: "user"})
	req.NoError(err)
	req.Len(results, 3)
	req.Equal("user1", results[0].Row)
	req.Equal("user3", results[2].Row)

	results, err = db.Scan(ctx, "t1", &Scan{Limit: 2})
	req.NoError(err)
	req.Len(results, 2)
	req.Equal("admin", results[0].Row)

	results, err = db.Scan(ctx, "t1", nil)
	req.NoError(err)
	req.Len(results, 4)
	req.Len(ParseResults(results), 4)

	var buf bytes.Buffer
	req.NoError(db.PrintScan(ctx, &buf, "t1", &Scan{StartRow: "user2"}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	req.Len(lines, 2)
	req.Regexp(`^user2:<cf1:name>:\d+=user2$`, lines[0])
	req.Regexp(`^user3:<cf1:name>:\d+=user3$`, lines[1])

	_, err = db.Scan(ctx, "t1", &Scan{Filter: "KeyOnlyFilter()"})
	req.True(errors.Is(err, ErrRead))
	req.True(errors.Is(err, client.ErrUnsupported))
}

func TestDB_GetValueLogsMissingCell(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	m := client.NewMemoryClient()
	m.CreateTable("t1", "cf1")
	var logs bytes.Buffer
	db := NewDB(m, WithLogger(logger.NewWriterLogger(&logs)))

	var name string
	err := db.GetValue(ctx, "t1", "user1", "cf1", "name", &name)
	req.True(errors.Is(err, ErrCellNotFound))
	req.Contains(logs.String(), `"level":"error"`)
	req.Contains(logs.String(), "read failed: table t1 row user1: cell not found")
}

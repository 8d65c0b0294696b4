package client

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func newMemory() *MemoryClient {
	m := NewMemoryClient()
	var clock int64 = 1000
	m.now = func() int64 {
		clock++
		return clock
	}
	m.CreateTable("t1", "cf1", "cf2")
	return m
}

func put(t *testing.T, m *MemoryClient, row string, values map[string]map[string][]byte) {
	t.Helper()
	require.NoError(t, m.Put(context.Background(), "t1", &Put{Row: []byte(row), Values: values}))
}

func TestMemoryClient_PutGetVersions(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m := newMemory()

	put(t, m, "row1", map[string]map[string][]byte{"cf1": {"name": []byte("bob"), "age": []byte("7")}})
	put(t, m, "row1", map[string]map[string][]byte{"cf1": {"name": []byte("alice")}})

	cells, err := m.Get(ctx, "t1", &Get{Row: []byte("row1")})
	req.NoError(err)
	req.Len(cells, 2)
	req.Equal("age", string(cells[0].Qualifier))
	req.Equal("name", string(cells[1].Qualifier))
	req.Equal("alice", string(cells[1].Value))
	req.Equal(int64(1002), cells[1].Timestamp)

	cells, err = m.Get(ctx, "t1", &Get{Row: []byte("row1"), MaxVersions: 5})
	req.NoError(err)
	req.Len(cells, 3)
	req.Equal("alice", string(cells[1].Value))
	req.Equal("bob", string(cells[2].Value))
	req.Greater(cells[1].Timestamp, cells[2].Timestamp)

	cells, err = m.Get(ctx, "t1", &Get{Row: []byte("row1"), Families: map[string][]string{"cf1": {"age"}}})
	req.NoError(err)
	req.Len(cells, 1)
	req.Equal("7", string(cells[0].Value))

	cells, err = m.Get(ctx, "t1", &Get{Row: []byte("missing")})
	req.NoError(err)
	req.Empty(cells)
}

func TestMemoryClient_Retention(t *testing.T) {
	req := require.New(t)
	m := newMemory()
	m.SetVersions(2)

	for _, v := range []string{"v1", "v2", "v3"} {
		put(t, m, "r", map[string]map[string][]byte{"cf1": {"q": []byte(v)}})
	}
	// same timestamp replaces the version
	req.NoError(m.Put(context.Background(), "t1", &Put{
		Row:       []byte("r"),
		Values:    map[string]map[string][]byte{"cf1": {"q": []byte("v3b")}},
		Timestamp: 1003,
	}))

	cells, err := m.Get(context.Background(), "t1", &Get{Row: []byte("r"), MaxVersions: 10})
	req.NoError(err)
	req.Len(cells, 2)
	req.Equal("v3b", string(cells[0].Value))
	req.Equal("v2", string(cells[1].Value))
}

func TestMemoryClient_Errors(t *testing.T) {
	ctx := context.Background()

	tests := map[string]struct {
		call  func(m *MemoryClient) error
		check func(req *require.Assertions, err error)
	}{
		"unknown table": {
			call: func(m *MemoryClient) error {
				_, err := m.Get(ctx, "nope", &Get{Row: []byte("r")})
				return err
			},
			check: func(req *require.Assertions, err error) {
				req.True(errors.Is(err, ErrTableNotFound))
			},
		},
		"unknown family": {
			call: func(m *MemoryClient) error {
				return m.Put(ctx, "t1", &Put{Row: []byte("r"), Values: map[string]map[string][]byte{"cf9": {"q": nil}}})
			},
			check: func(req *require.Assertions, err error) {
				req.Contains(err.Error(), "column family cf9 does not exist")
			},
		},
		"filter string": {
			call: func(m *MemoryClient) error {
				_, err := m.Scan(ctx, "t1", &Scan{Filter: "KeyOnlyFilter()"})
				return err
			},
			check: func(req *require.Assertions, err error) {
				req.True(errors.Is(err, ErrUnsupported))
			},
		},
		"closed": {
			call: func(m *MemoryClient) error {
				_ = m.Close()
				return m.Delete(ctx, "t1", []byte("r"))
			},
			check: func(req *require.Assertions, err error) {
				req.Equal(errClosed, err)
			},
		},
		"cancelled context": {
			call: func(m *MemoryClient) error {
				cctx, cancel := context.WithCancel(ctx)
				cancel()
				_, err := m.TableExists(cctx, "t1")
				return err
			},
			check: func(req *require.Assertions, err error) {
				req.True(errors.Is(err, context.Canceled))
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			req := require.New(t)
			err := tc.call(newMemory())
			req.Error(err)
			tc.check(req, err)
		})
	}
}

func TestMemoryClient_DeleteAndScan(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m := newMemory()

	for _, k := range []string{"user1", "user2", "user3", "admin"} {
		put(t, m, k, map[string]map[string][]byte{"cf1": {"name": []byte(k)}})
	}
	req.NoError(m.Delete(ctx, "t1", []byte("user2")))

	s, err := m.Scan(ctx, "t1", &Scan{StartRow: []byte("user"), StopRow: []byte("usf")})
	req.NoError(err)

	var rows []string
	for {
		cells, err := s.Next()
		if err == io.EOF {
			break
		}
		req.NoError(err)
		rows = append(rows, string(cells[0].Row))
	}
	req.Equal([]string{"user1", "user3"}, rows)
	req.NoError(s.Close())

	s, err = m.Scan(ctx, "t1", &Scan{Limit: 2})
	req.NoError(err)
	first, err := s.Next()
	req.NoError(err)
	req.Equal("admin", string(first[0].Row))
	_, err = s.Next()
	req.NoError(err)
	_, err = s.Next()
	req.Equal(io.EOF, err)

	ok, err := m.TableExists(ctx, "t1")
	req.NoError(err)
	req.True(ok)
}

func TestMemoryClient_ReadsAreCopies(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	m := newMemory()

	put(t, m, "row1", map[string]map[string][]byte{"cf1": {"name": []byte("bob")}})

	cells, err := m.Get(ctx, "t1", &Get{Row: []byte("row1")})
	req.NoError(err)
	req.Len(cells, 1)
	cells[0].Value[0] = 'X'

	cells, err = m.Get(ctx, "t1", &Get{Row: []byte("row1")})
	req.NoError(err)
	req.Equal("bob", string(cells[0].Value))
}

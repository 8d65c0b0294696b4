package client

import (
	"bytes"
	"context"
	"errors"
	"sort"
)

//go:generate mockgen -destination=client_mock.go -package=client -source=client.go

// ErrTableNotFound is returned by every backend when the table does not exist on the cluster.
var ErrTableNotFound = errors.New("table not found")

// ErrUnsupported is returned when a backend cannot honour a request option.
var ErrUnsupported = errors.New("not supported by this backend")

// Cell is one timestamped version of a column value.
type Cell struct {
	Row       []byte
	Family    []byte
	Qualifier []byte
	Timestamp int64
	Value     []byte
}

// Get reads a single row.
type Get struct {
	Row []byte
	// Families restricts the read; a nil or empty qualifier list means the whole family.
	Families map[string][]string
	// MaxVersions is the number of versions per column; zero means the latest only.
	MaxVersions int32
}

// Put writes cells of a single row in one request.
type Put struct {
	Row []byte
	// Values maps family to qualifier to value.
	Values map[string]map[string][]byte
	// Timestamp applies to every cell; zero lets the server pick.
	Timestamp int64
}

// Scan reads a range of rows. StopRow is exclusive; nil bounds are open.
type Scan struct {
	StartRow    []byte
	StopRow     []byte
	Families    map[string][]string
	MaxVersions int32
	// Filter is an HBase filter string, e.g. "PrefixFilter('user')".
	Filter string
	// BatchSize is how many rows one round trip returns.
	BatchSize int32
	// Limit caps the rows returned, zero for no limit.
	Limit int32
}

// Scanner iterates a scan one row at a time.
type Scanner interface {
	// Next returns the cells of the next row or io.EOF when the scan is done.
	Next() ([]*Cell, error)
	Close() error
}

// Client is a connection to an HBase cluster. Implementations are safe for concurrent use.
type Client interface {
	TableExists(ctx context.Context, table string) (bool, error)
	Get(ctx context.Context, table string, get *Get) ([]*Cell, error)
	Put(ctx context.Context, table string, put *Put) error
	// Delete removes every cell of the row.
	Delete(ctx context.Context, table string, row []byte) error
	Scan(ctx context.Context, table string, scan *Scan) (Scanner, error)
	Close() error
}

// SortCells orders cells by row, family and qualifier ascending, then newest version first.
func SortCells(cells []*Cell) {
	sort.SliceStable(cells, func(i, j int) bool {
		a, b := cells[i], cells[j]
		if c := bytes.Compare(a.Row, b.Row); c != 0 {
			return c < 0
		}
		if c := bytes.Compare(a.Family, b.Family); c != 0 {
			return c < 0
		}
		if c := bytes.Compare(a.Qualifier, b.Qualifier); c != 0 {
			return c < 0
		}
		return a.Timestamp > b.Timestamp
	})
}

func maxVersions(v int32) int32 {
	if v <= 0 {
		return 1
	}
	return v
}

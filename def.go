package hbaseutils

import "github.com/challenai/hbaseutils/client"

// Scan selects a range of rows. StopRow is exclusive. Prefix, when set, overrides StartRow and
// derives StopRow unless one is given.
type Scan struct {
	StartRow string
	StopRow  string
	Prefix   string
	// Families restricts the columns, family to qualifiers; no qualifiers means the whole family.
	Families    map[string][]string
	MaxVersions int32
	// Filter is an HBase filter string; only the thrift backend accepts it.
	Filter string
	// Limit caps the number of rows, zero for all.
	Limit int32
	// BatchSize overrides the DB's rows-per-round-trip.
	BatchSize int32
}

// GetOption narrows a single row read.
type GetOption func(*client.Get)

// Families restricts a read to the given family to qualifiers mapping.
func Families(families map[string][]string) GetOption {
	return func(g *client.Get) {
		g.Families = families
	}
}

// MaxVersions asks for up to n versions of every column.
func MaxVersions(n int32) GetOption {
	return func(g *client.Get) {
		g.MaxVersions = n
	}
}

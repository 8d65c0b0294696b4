package hbaseutils

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/challenai/hbaseutils/client"
)

// Result is the content of one row. Cells are ordered family and qualifier ascending, newest
// version first.
type Result struct {
	Row   string
	Cells []*client.Cell
}

func newResult(row string, cells []*client.Cell) *Result {
	client.SortCells(cells)
	return &Result{Row: row, Cells: cells}
}

// Empty reports whether the row had no cells, which is how an absent row comes back.
func (r *Result) Empty() bool {
	return r == nil || len(r.Cells) == 0
}

// Map nests the cells as family -> qualifier -> timestamp -> value.
func (r *Result) Map() map[string]map[string]map[int64][]byte {
	m := map[string]map[string]map[int64][]byte{}
	if r == nil {
		return m
	}
	for _, c := range r.Cells {
		quals, ok := m[string(c.Family)]
		if !ok {
			quals = map[string]map[int64][]byte{}
			m[string(c.Family)] = quals
		}
		versions, ok := quals[string(c.Qualifier)]
		if !ok {
			versions = map[int64][]byte{}
			quals[string(c.Qualifier)] = versions
		}
		versions[c.Timestamp] = c.Value
	}
	return m
}

// Latest returns the newest value of a column.
func (r *Result) Latest(family, qualifier string) ([]byte, bool) {
	if r == nil {
		return nil, false
	}
	var (
		found bool
		ts    int64
		value []byte
	)
	for _, c := range r.Cells {
		if string(c.Family) != family || string(c.Qualifier) != qualifier {
			continue
		}
		if !found || c.Timestamp > ts {
			found, ts, value = true, c.Timestamp, c.Value
		}
	}
	return value, found
}

// EntryKey formats the flattened key of a cell: "<row>:<family:qualifier>:<timestamp>".
func EntryKey(row, family, qualifier string, timestamp int64) string {
	return row + ":<" + family + ":" + qualifier + ">:" + strconv.FormatInt(timestamp, 10)
}

// ParseResult flattens a row into one single-entry map per (family, qualifier, timestamp).
func ParseResult(r *Result) []map[string]string {
	return ParseResultInto(r, []map[string]string{})
}

// ParseResultInto appends the flattened entries of r to dst.
func ParseResultInto(r *Result, dst []map[string]string) []map[string]string {
	if r == nil {
		return dst
	}
	for _, c := range r.Cells {
		dst = append(dst, map[string]string{
			EntryKey(r.Row, string(c.Family), string(c.Qualifier), c.Timestamp): string(c.Value),
		})
	}
	return dst
}

// ParseResults drains many rows, e.g. a scan, into one combined list.
func ParseResults(rs []*Result) []map[string]string {
	entries := []map[string]string{}
	for _, r := range rs {
		entries = ParseResultInto(r, entries)
	}
	return entries
}

// WriteEntries prints flattened entries as "key=value" lines.
func WriteEntries(w io.Writer, entries []map[string]string) error {
	bw := bufio.NewWriter(w)
	for _, entry := range entries {
		keys := make([]string, 0, len(entry))
		for k := range entry {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, err := fmt.Fprintf(bw, "%s=%s\n", k, entry[k]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

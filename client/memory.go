package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

const defaultMemoryVersions = 3

type memVersion struct {
	ts    int64
	value []byte
}

// memRow is family -> qualifier -> versions, newest first.
type memRow map[string]map[string][]memVersion

type memTable struct {
	families map[string]struct{}
	rows     map[string]memRow
}

// MemoryClient keeps tables in process. It follows the cluster's rules that matter to callers:
// unknown tables and families are rejected, versions are kept newest first, deletes drop the row.
type MemoryClient struct {
	mu       sync.RWMutex
	tables   map[string]*memTable
	versions int
	now      func() int64
	closed   bool
}

// NewMemoryClient creates an empty in-process cluster.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		tables:   map[string]*memTable{},
		versions: defaultMemoryVersions,
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// CreateTable defines a table. Without families any family is accepted.
func (m *MemoryClient) CreateTable(name string, families ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &memTable{rows: map[string]memRow{}}
	if len(families) > 0 {
		t.families = map[string]struct{}{}
		for _, f := range families {
			t.families[f] = struct{}{}
		}
	}
	m.tables[name] = t
}

// SetVersions sets how many versions of a column are retained.
func (m *MemoryClient) SetVersions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > 0 {
		m.versions = n
	}
}

func (m *MemoryClient) table(name string) (*memTable, error) {
	if m.closed {
		return nil, errClosed
	}
	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

var errClosed = errors.New("memory client is closed")

func (m *MemoryClient) TableExists(ctx context.Context, table string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false, errClosed
	}
	_, ok := m.tables[table]
	return ok, nil
}

func (m *MemoryClient) Get(ctx context.Context, table string, get *Get) ([]*Cell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkFamilies(get.Families); err != nil {
		return nil, err
	}
	row, ok := t.rows[string(get.Row)]
	if !ok {
		return nil, nil
	}
	return row.cells(get.Row, get.Families, maxVersions(get.MaxVersions)), nil
}

func (m *MemoryClient) Put(ctx context.Context, table string, put *Put) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return err
	}
	for family := range put.Values {
		if !t.hasFamily(family) {
			return fmt.Errorf("column family %s does not exist in table %s", family, table)
		}
	}

	ts := put.Timestamp
	if ts == 0 {
		ts = m.now()
	}
	row, ok := t.rows[string(put.Row)]
	if !ok {
		row = memRow{}
		t.rows[string(put.Row)] = row
	}
	for family, values := range put.Values {
		quals, ok := row[family]
		if !ok {
			quals = map[string][]memVersion{}
			row[family] = quals
		}
		for qualifier, value := range values {
			quals[qualifier] = insertVersion(quals[qualifier], memVersion{ts: ts, value: append([]byte(nil), value...)}, m.versions)
		}
	}
	return nil
}

// insertVersion keeps versions sorted newest first; a write at an existing timestamp replaces it.
func insertVersion(versions []memVersion, v memVersion, keep int) []memVersion {
	i := sort.Search(len(versions), func(i int) bool { return versions[i].ts <= v.ts })
	if i < len(versions) && versions[i].ts == v.ts {
		versions[i] = v
	} else {
		versions = append(versions, memVersion{})
		copy(versions[i+1:], versions[i:])
		versions[i] = v
	}
	if len(versions) > keep {
		versions = versions[:keep]
	}
	return versions
}

func (m *MemoryClient) Delete(ctx context.Context, table string, row []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, err := m.table(table)
	if err != nil {
		return err
	}
	delete(t.rows, string(row))
	return nil
}

// Scan snapshots the matching rows when called.
func (m *MemoryClient) Scan(ctx context.Context, table string, scan *Scan) (Scanner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scan.Filter != "" {
		return nil, fmt.Errorf("filter string %q: %w", scan.Filter, ErrUnsupported)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkFamilies(scan.Families); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		key := []byte(k)
		if scan.StartRow != nil && bytes.Compare(key, scan.StartRow) < 0 {
			continue
		}
		if len(scan.StopRow) > 0 && bytes.Compare(key, scan.StopRow) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := &memScanner{}
	for _, k := range keys {
		cells := t.rows[k].cells([]byte(k), scan.Families, maxVersions(scan.MaxVersions))
		if len(cells) == 0 {
			continue
		}
		s.rows = append(s.rows, cells)
		if scan.Limit > 0 && int32(len(s.rows)) >= scan.Limit {
			break
		}
	}
	return s, nil
}

func (m *MemoryClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (t *memTable) hasFamily(family string) bool {
	if t.families == nil {
		return true
	}
	_, ok := t.families[family]
	return ok
}

func (t *memTable) checkFamilies(families map[string][]string) error {
	for family := range families {
		if !t.hasFamily(family) {
			return fmt.Errorf("column family %s does not exist", family)
		}
	}
	return nil
}

func (r memRow) cells(row []byte, families map[string][]string, versions int32) []*Cell {
	var cells []*Cell
	for family, quals := range r {
		wanted, filtered := families[family]
		if len(families) > 0 && !filtered {
			continue
		}
		for qualifier, vs := range quals {
			if len(wanted) > 0 && !contains(wanted, qualifier) {
				continue
			}
			for i, v := range vs {
				if int32(i) >= versions {
					break
				}
				cells = append(cells, &Cell{
					Row:       row,
					Family:    []byte(family),
					Qualifier: []byte(qualifier),
					Timestamp: v.ts,
					Value:     append([]byte(nil), v.value...),
				})
			}
		}
	}
	SortCells(cells)
	return cells
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type memScanner struct {
	rows [][]*Cell
}

func (s *memScanner) Next() ([]*Cell, error) {
	if len(s.rows) == 0 {
		return nil, io.EOF
	}
	r := s.rows[0]
	s.rows = s.rows[1:]
	return r, nil
}

func (s *memScanner) Close() error {
	s.rows = nil
	return nil
}

package hbaseutils

import (
	"context"
	"errors"
	"io"

	"github.com/challenai/hbaseutils/client"
	"github.com/challenai/hbaseutils/codec"
	"github.com/challenai/hbaseutils/utils"
)

// Table is a handle on one table of the cluster. It is cheap; resolve one per use.
type Table struct {
	name string
	db   *DB
}

// Name returns the table name, possibly namespace qualified.
func (t *Table) Name() string {
	return t.name
}

func (t *Table) fail(kind error, row string, err error) error {
	e := newError(kind, t.name, row, err)
	t.db.log.Errorf("%v", e)
	return e
}

// Put writes one cell per entry of data under rowKey and family in a single request.
func (t *Table) Put(ctx context.Context, rowKey, family string, data map[string]string) error {
	values := make(map[string][]byte, len(data))
	for qualifier, v := range data {
		values[qualifier] = t.db.cdc.EncodeString(v)
	}
	return t.put(ctx, rowKey, family, values)
}

// PutValues is Put for typed values, encoded with the DB's codec.
func (t *Table) PutValues(ctx context.Context, rowKey, family string, data map[string]interface{}) error {
	values := make(map[string][]byte, len(data))
	for qualifier, v := range data {
		b, err := codec.Encode(t.db.cdc, v)
		if err != nil {
			return t.fail(ErrWrite, rowKey, err)
		}
		values[qualifier] = b
	}
	return t.put(ctx, rowKey, family, values)
}

func (t *Table) put(ctx context.Context, rowKey, family string, values map[string][]byte) error {
	if t.name == "" {
		return t.fail(ErrWrite, rowKey, errEmptyTableName)
	}
	if len(values) == 0 {
		return t.fail(ErrWrite, rowKey, errEmptyData)
	}
	err := t.db.conn.Put(ctx, t.name, &client.Put{
		Row:    []byte(rowKey),
		Values: map[string]map[string][]byte{family: values},
	})
	if err != nil {
		return t.fail(ErrWrite, rowKey, err)
	}
	t.db.log.Debugf("put %d columns into %s/%s family %s", len(values), t.name, rowKey, family)
	return nil
}

// Get reads one row. An absent row is an empty Result, not an error.
func (t *Table) Get(ctx context.Context, rowKey string, opts ...GetOption) (*Result, error) {
	if t.name == "" {
		return nil, t.fail(ErrRead, rowKey, errEmptyTableName)
	}
	get := &client.Get{Row: []byte(rowKey)}
	for _, opt := range opts {
		opt(get)
	}
	cells, err := t.db.conn.Get(ctx, t.name, get)
	if err != nil {
		return nil, t.fail(ErrRead, rowKey, err)
	}
	return newResult(rowKey, cells), nil
}

// GetResultFromTableByRowKey reads one row and flattens it.
func (t *Table) GetResultFromTableByRowKey(ctx context.Context, rowKey string) ([]map[string]string, error) {
	r, err := t.Get(ctx, rowKey)
	if err != nil {
		return []map[string]string{}, err
	}
	return ParseResult(r), nil
}

// GetValue decodes the newest value of one column into out.
func (t *Table) GetValue(ctx context.Context, rowKey, family, qualifier string, out interface{}) error {
	r, err := t.Get(ctx, rowKey, Families(map[string][]string{family: {qualifier}}))
	if err != nil {
		return err
	}
	b, ok := r.Latest(family, qualifier)
	if !ok {
		return t.fail(ErrRead, rowKey, ErrCellNotFound)
	}
	if err := codec.Decode(t.db.cdc, b, out); err != nil {
		return t.fail(ErrRead, rowKey, err)
	}
	return nil
}

// Delete removes every cell of the row.
func (t *Table) Delete(ctx context.Context, rowKey string) error {
	if t.name == "" {
		return t.fail(ErrDelete, rowKey, errEmptyTableName)
	}
	if err := t.db.conn.Delete(ctx, t.name, []byte(rowKey)); err != nil {
		return t.fail(ErrDelete, rowKey, err)
	}
	t.db.log.Debugf("deleted %s/%s", t.name, rowKey)
	return nil
}

// Scan drains the selected range into one Result per row.
func (t *Table) Scan(ctx context.Context, scan *Scan) ([]*Result, error) {
	if t.name == "" {
		return nil, t.fail(ErrRead, "", errEmptyTableName)
	}
	if scan == nil {
		scan = &Scan{}
	}
	req := &client.Scan{
		Families:    scan.Families,
		MaxVersions: scan.MaxVersions,
		Filter:      scan.Filter,
		BatchSize:   scan.BatchSize,
		Limit:       scan.Limit,
	}
	if req.BatchSize <= 0 {
		req.BatchSize = t.db.batch
	}
	if scan.StartRow != "" {
		req.StartRow = []byte(scan.StartRow)
	}
	if scan.StopRow != "" {
		req.StopRow = []byte(scan.StopRow)
	}
	if scan.Prefix != "" {
		req.StartRow = []byte(scan.Prefix)
		if req.StopRow == nil {
			req.StopRow = utils.PrefixStopRow([]byte(scan.Prefix))
		}
	}

	scanner, err := t.db.conn.Scan(ctx, t.name, req)
	if err != nil {
		return nil, t.fail(ErrRead, "", err)
	}
	defer scanner.Close()

	var results []*Result
	for scan.Limit <= 0 || int32(len(results)) < scan.Limit {
		cells, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, t.fail(ErrRead, "", err)
		}
		if len(cells) == 0 {
			continue
		}
		results = append(results, newResult(string(cells[0].Row), cells))
	}
	t.db.log.Debugf("scanned %d rows from %s", len(results), t.name)
	return results, nil
}

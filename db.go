package hbaseutils

import (
	"context"
	"io"

	"github.com/challenai/hbaseutils/client"
	"github.com/challenai/hbaseutils/codec"
	"github.com/challenai/hbaseutils/config"
	"github.com/challenai/hbaseutils/logger"
)

// DB represent a HBase database reached through one connection. The caller owns the connection:
// build it once, share the DB, and Close it at shutdown.
type DB struct {
	conn  client.Client
	cdc   codec.Codec
	log   logger.Logger
	batch int32
}

// Option customizes a DB.
type Option func(*DB)

// WithCodec sets the codec used for typed values.
func WithCodec(c codec.Codec) Option {
	return func(h *DB) {
		h.cdc = c
	}
}

// WithLogger sets where failures are logged.
func WithLogger(l logger.Logger) Option {
	return func(h *DB) {
		h.log = l
	}
}

// WithScanBatchSize sets how many rows a scan fetches per round trip.
func WithScanBatchSize(n int32) Option {
	return func(h *DB) {
		if n > 0 {
			h.batch = n
		}
	}
}

// NewDB wraps an open connection.
func NewDB(conn client.Client, opts ...Option) *DB {
	h := &DB{
		conn:  conn,
		cdc:   &codec.DefaultCodec{},
		log:   logger.NewStdLogger(),
		batch: config.DefaultScanBatchSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Table resolves a handle for the table, failing with ErrTableNotFound if it does not exist.
func (h *DB) Table(ctx context.Context, name string) (*Table, error) {
	t := h.table(name)
	if name == "" {
		return nil, t.fail(ErrTableNotFound, "", errEmptyTableName)
	}
	exists, err := h.conn.TableExists(ctx, name)
	if err != nil {
		return nil, t.fail(ErrConnection, "", err)
	}
	if !exists {
		return nil, t.fail(ErrTableNotFound, "", nil)
	}
	return t, nil
}

// table returns an unchecked handle; a missing table surfaces on first use.
func (h *DB) table(name string) *Table {
	return &Table{name: name, db: h}
}

// Add writes one cell per entry of data, all under rowKey and family, in a single request.
func (h *DB) Add(ctx context.Context, tableName, rowKey, family string, data map[string]string) error {
	return h.table(tableName).Put(ctx, rowKey, family, data)
}

// AddValues is Add for typed values, encoded with the DB's codec.
func (h *DB) AddValues(ctx context.Context, tableName, rowKey, family string, data map[string]interface{}) error {
	return h.table(tableName).PutValues(ctx, rowKey, family, data)
}

// Get reads one row.
func (h *DB) Get(ctx context.Context, tableName, rowKey string, opts ...GetOption) (*Result, error) {
	return h.table(tableName).Get(ctx, rowKey, opts...)
}

// GetResultByTableAndRowKey reads one row and flattens it. The list is empty, never nil, when the
// row is absent or the read fails.
func (h *DB) GetResultByTableAndRowKey(ctx context.Context, tableName, rowKey string) ([]map[string]string, error) {
	return h.table(tableName).GetResultFromTableByRowKey(ctx, rowKey)
}

// GetValue decodes the newest value of one column into out.
func (h *DB) GetValue(ctx context.Context, tableName, rowKey, family, qualifier string, out interface{}) error {
	return h.table(tableName).GetValue(ctx, rowKey, family, qualifier, out)
}

// Delete removes all data of the row.
func (h *DB) Delete(ctx context.Context, tableName, rowKey string) error {
	return h.table(tableName).Delete(ctx, rowKey)
}

// Scan reads a range of rows.
func (h *DB) Scan(ctx context.Context, tableName string, scan *Scan) ([]*Result, error) {
	return h.table(tableName).Scan(ctx, scan)
}

// PrintScan writes the combined flattened list of a scan to w.
func (h *DB) PrintScan(ctx context.Context, w io.Writer, tableName string, scan *Scan) error {
	results, err := h.Scan(ctx, tableName, scan)
	if err != nil {
		return err
	}
	return WriteEntries(w, ParseResults(results))
}

// Close releases the connection.
func (h *DB) Close() error {
	if err := h.conn.Close(); err != nil {
		e := newError(ErrConnection, "", "", err)
		h.log.Errorf("%v", e)
		return e
	}
	return nil
}

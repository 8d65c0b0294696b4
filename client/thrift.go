package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/google/uuid"

	"github.com/challenai/hbaseutils/thrift/hbase"
	"github.com/challenai/hbaseutils/utils"
)

const requestIDHeader = "X-Request-Id"

// http Header attached to HBase client
// for example, some cloud service provider HBase instances need some authorization headers.
type Header struct {
	Key, Value string
}

// RoundTripper adds the configured headers and a request id to every gateway call.
type RoundTripper struct {
	Headers []Header
	Next    http.RoundTripper
}

// RoundTrip implement http RoundTripper interface
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for _, header := range rt.Headers {
		req.Header.Add(header.Key, header.Value)
	}
	if req.Header.Get(requestIDHeader) == "" {
		req.Header.Set(requestIDHeader, uuid.NewString())
	}
	next := rt.Next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(req)
}

// ThriftClient talks to an HBase Thrift2 gateway over HTTP. The HTTP transport buffers one
// request at a time, so calls are serialized on mu.
type ThriftClient struct {
	mu    sync.Mutex
	trans thrift.TTransport
	svc   *hbase.THBaseServiceClient
}

// NewThriftClient opens an HTTP transport to the gateway at addr.
func NewThriftClient(addr string, headers []Header, timeout time.Duration) (*ThriftClient, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := http.Client{
		Transport: &RoundTripper{
			Headers: headers,
		},
		Timeout: timeout,
	}
	trans, err := thrift.NewTHttpClientWithOptions(addr, thrift.THttpClientOptions{Client: &httpClient})
	if err != nil {
		return nil, err
	}
	if err = trans.Open(); err != nil {
		return nil, err
	}
	proto := thrift.NewTBinaryProtocol(trans, false, false)
	return &ThriftClient{
		trans: trans,
		svc:   hbase.NewTHBaseServiceClient(thrift.NewTStandardClient(proto, proto)),
	}, nil
}

// translate maps gateway exceptions about missing tables to ErrTableNotFound.
func translate(err error) error {
	var ioErr *hbase.TIOError
	if errors.As(err, &ioErr) && strings.Contains(ioErr.GetMessage(), "TableNotFoundException") {
		return errors.Join(ErrTableNotFound, err)
	}
	return err
}

func toTColumns(families map[string][]string) []*hbase.TColumn {
	if len(families) == 0 {
		return nil
	}
	var cols []*hbase.TColumn
	for family, qualifiers := range families {
		if len(qualifiers) == 0 {
			cols = append(cols, &hbase.TColumn{Family: []byte(family)})
			continue
		}
		for _, q := range qualifiers {
			cols = append(cols, &hbase.TColumn{Family: []byte(family), Qualifier: []byte(q)})
		}
	}
	return cols
}

func fromTResult(r *hbase.TResult) []*Cell {
	if r == nil || len(r.ColumnValues) == 0 {
		return nil
	}
	cells := make([]*Cell, 0, len(r.ColumnValues))
	for _, cv := range r.ColumnValues {
		cells = append(cells, &Cell{
			Row:       r.Row,
			Family:    cv.Family,
			Qualifier: cv.Qualifier,
			Timestamp: cv.GetTimestamp(),
			Value:     cv.Value,
		})
	}
	SortCells(cells)
	return cells
}

// TableExists splits an optional "namespace:" prefix off the name.
func (c *ThriftClient) TableExists(ctx context.Context, table string) (bool, error) {
	name := &hbase.TTableName{Qualifier: []byte(table)}
	if ns, qualifier, ok := strings.Cut(table, ":"); ok {
		name.Ns, name.Qualifier = []byte(ns), []byte(qualifier)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.svc.TableExists(ctx, name)
}

func (c *ThriftClient) Get(ctx context.Context, table string, get *Get) ([]*Cell, error) {
	mv := maxVersions(get.MaxVersions)
	c.mu.Lock()
	defer c.mu.Unlock()
	result, err := c.svc.Get(ctx, []byte(table), &hbase.TGet{
		Row:         get.Row,
		Columns:     toTColumns(get.Families),
		MaxVersions: &mv,
	})
	if err != nil {
		return nil, translate(err)
	}
	return fromTResult(result), nil
}

func (c *ThriftClient) Put(ctx context.Context, table string, put *Put) error {
	tput := &hbase.TPut{Row: put.Row}
	if put.Timestamp != 0 {
		ts := put.Timestamp
		tput.Timestamp = &ts
	}
	for family, values := range put.Values {
		for qualifier, value := range values {
			tput.ColumnValues = append(tput.ColumnValues, &hbase.TColumnValue{
				Family:    []byte(family),
				Qualifier: []byte(qualifier),
				Value:     value,
			})
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return translate(c.svc.Put(ctx, []byte(table), tput))
}

func (c *ThriftClient) Delete(ctx context.Context, table string, row []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return translate(c.svc.DeleteSingle(ctx, []byte(table), &hbase.TDelete{Row: row}))
}

// Scan pages through the range with stateless getScannerResults calls, each resuming right
// after the last row of the previous page.
func (c *ThriftClient) Scan(ctx context.Context, table string, scan *Scan) (Scanner, error) {
	batch := scan.BatchSize
	if batch <= 0 {
		batch = 64
	}
	mv := maxVersions(scan.MaxVersions)
	tscan := &hbase.TScan{
		StartRow:    scan.StartRow,
		StopRow:     scan.StopRow,
		Columns:     toTColumns(scan.Families),
		MaxVersions: &mv,
	}
	if scan.Filter != "" {
		tscan.FilterString = []byte(scan.Filter)
	}
	return &thriftScanner{
		ctx:   ctx,
		c:     c,
		table: []byte(table),
		tscan: tscan,
		batch: batch,
		limit: scan.Limit,
	}, nil
}

func (c *ThriftClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trans.Close()
}

type thriftScanner struct {
	ctx     context.Context
	c       *ThriftClient
	table   []byte
	tscan   *hbase.TScan
	batch   int32
	limit   int32
	fetched int32
	pending []*hbase.TResult
	done    bool
}

func (s *thriftScanner) Next() ([]*Cell, error) {
	for len(s.pending) == 0 {
		if s.done {
			return nil, io.EOF
		}
		if err := s.fetch(); err != nil {
			return nil, err
		}
	}
	r := s.pending[0]
	s.pending = s.pending[1:]
	return fromTResult(r), nil
}

func (s *thriftScanner) fetch() error {
	size := utils.BatchSize(s.batch, s.limit, s.fetched)
	if size == 0 {
		s.done = true
		return nil
	}
	s.tscan.Caching = &size
	s.c.mu.Lock()
	results, err := s.c.svc.GetScannerResults(s.ctx, s.table, s.tscan, size)
	s.c.mu.Unlock()
	if err != nil {
		return translate(err)
	}
	if len(results) == 0 {
		s.done = true
		return nil
	}
	if int32(len(results)) < size {
		s.done = true
	}
	s.fetched += int32(len(results))
	s.pending = results
	s.tscan.StartRow = utils.ClosestRowAfter(results[len(results)-1].Row)
	return nil
}

func (s *thriftScanner) Close() error {
	s.done = true
	s.pending = nil
	return nil
}

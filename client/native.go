package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/tsuna/gohbase"
	"github.com/tsuna/gohbase/hrpc"
)

// NativeOptions configures the native RPC backend.
type NativeOptions struct {
	// Quorum is the ZooKeeper ensemble, "host:port,host:port".
	Quorum        string
	ZookeeperRoot string
	EffectiveUser string
	Timeout       time.Duration
}

// NativeClient speaks the HBase RPC protocol directly, locating regions through ZooKeeper.
type NativeClient struct {
	client gohbase.Client
	admin  gohbase.AdminClient
}

// NewNativeClient builds a client for the quorum. Region servers are contacted lazily, so an
// unreachable cluster surfaces on the first call.
func NewNativeClient(opts NativeOptions) (*NativeClient, error) {
	if opts.Quorum == "" {
		return nil, errors.New("zookeeper quorum is required")
	}
	var options []gohbase.Option
	if opts.ZookeeperRoot != "" {
		options = append(options, gohbase.ZookeeperRoot(opts.ZookeeperRoot))
	}
	if opts.EffectiveUser != "" {
		options = append(options, gohbase.EffectiveUser(opts.EffectiveUser))
	}
	if opts.Timeout > 0 {
		options = append(options,
			gohbase.ZookeeperTimeout(opts.Timeout),
			gohbase.RegionLookupTimeout(opts.Timeout),
		)
	}
	return &NativeClient{
		client: gohbase.NewClient(opts.Quorum, options...),
		admin:  gohbase.NewAdminClient(opts.Quorum, options...),
	}, nil
}

func nativeErr(err error) error {
	if errors.Is(err, gohbase.TableNotFound) {
		return errors.Join(ErrTableNotFound, err)
	}
	return err
}

func familiesOption(families map[string][]string) []func(hrpc.Call) error {
	if len(families) == 0 {
		return nil
	}
	return []func(hrpc.Call) error{hrpc.Families(families)}
}

func fromNativeCells(cells []*hrpc.Cell) []*Cell {
	if len(cells) == 0 {
		return nil
	}
	out := make([]*Cell, 0, len(cells))
	for _, c := range cells {
		cell := &Cell{
			Row:       c.Row,
			Family:    c.Family,
			Qualifier: c.Qualifier,
			Value:     c.Value,
		}
		if c.Timestamp != nil {
			cell.Timestamp = int64(*c.Timestamp)
		}
		out = append(out, cell)
	}
	SortCells(out)
	return out
}

// TableExists lists the table names matching table and looks for an exact match.
func (c *NativeClient) TableExists(ctx context.Context, table string) (bool, error) {
	ns, qualifier := "default", table
	if n, q, ok := strings.Cut(table, ":"); ok {
		ns, qualifier = n, q
	}
	req, err := hrpc.NewListTableNames(ctx, hrpc.ListRegex("^"+regexp.QuoteMeta(qualifier)+"$"), hrpc.ListNamespace(ns))
	if err != nil {
		return false, err
	}
	names, err := c.admin.ListTableNames(req)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if string(name.GetQualifier()) == qualifier && string(name.GetNamespace()) == ns {
			return true, nil
		}
	}
	return false, nil
}

func (c *NativeClient) Get(ctx context.Context, table string, get *Get) ([]*Cell, error) {
	opts := append(familiesOption(get.Families), hrpc.MaxVersions(uint32(maxVersions(get.MaxVersions))))
	req, err := hrpc.NewGet(ctx, []byte(table), get.Row, opts...)
	if err != nil {
		return nil, err
	}
	res, err := c.client.Get(req)
	if err != nil {
		return nil, nativeErr(err)
	}
	return fromNativeCells(res.Cells), nil
}

func (c *NativeClient) Put(ctx context.Context, table string, put *Put) error {
	var opts []func(hrpc.Call) error
	if put.Timestamp != 0 {
		opts = append(opts, hrpc.TimestampUint64(uint64(put.Timestamp)))
	}
	req, err := hrpc.NewPut(ctx, []byte(table), put.Row, put.Values, opts...)
	if err != nil {
		return err
	}
	_, err = c.client.Put(req)
	return nativeErr(err)
}

func (c *NativeClient) Delete(ctx context.Context, table string, row []byte) error {
	req, err := hrpc.NewDel(ctx, []byte(table), row, nil)
	if err != nil {
		return err
	}
	_, err = c.client.Delete(req)
	return nativeErr(err)
}

// Scan does not accept filter strings; gohbase only takes filter objects.
func (c *NativeClient) Scan(ctx context.Context, table string, scan *Scan) (Scanner, error) {
	if scan.Filter != "" {
		return nil, fmt.Errorf("filter string %q: %w", scan.Filter, ErrUnsupported)
	}
	opts := append(familiesOption(scan.Families), hrpc.MaxVersions(uint32(maxVersions(scan.MaxVersions))))
	if scan.BatchSize > 0 {
		opts = append(opts, hrpc.NumberOfRows(uint32(scan.BatchSize)))
	}
	req, err := hrpc.NewScanRange(ctx, []byte(table), scan.StartRow, scan.StopRow, opts...)
	if err != nil {
		return nil, err
	}
	return &nativeScanner{s: c.client.Scan(req), limit: scan.Limit}, nil
}

func (c *NativeClient) Close() error {
	c.client.Close()
	if closer, ok := c.admin.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}

type nativeScanner struct {
	s     hrpc.Scanner
	limit int32
	rows  int32
}

func (s *nativeScanner) Next() ([]*Cell, error) {
	if s.limit > 0 && s.rows >= s.limit {
		return nil, io.EOF
	}
	res, err := s.s.Next()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, nativeErr(err)
	}
	s.rows++
	return fromNativeCells(res.Cells), nil
}

func (s *nativeScanner) Close() error {
	return s.s.Close()
}

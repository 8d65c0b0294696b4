package hbaseutils

import (
	"fmt"
	"sync"

	"github.com/challenai/hbaseutils/client"
	"github.com/challenai/hbaseutils/config"
)

// NewHBase connects to the cluster described by cfg.
func NewHBase(cfg *config.Config, opts ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Kind: ErrConnection, Err: fmt.Errorf("invalid config: %w", err)}
	}
	conn, err := NewClient(cfg)
	if err != nil {
		return nil, &Error{Kind: ErrConnection, Err: err}
	}
	opts = append([]Option{WithScanBatchSize(cfg.ScanBatchSize)}, opts...)
	return NewDB(conn, opts...), nil
}

// NewClient opens the backend connection selected by cfg.Backend.
func NewClient(cfg *config.Config) (client.Client, error) {
	switch cfg.Backend {
	case config.BackendNative:
		return client.NewNativeClient(client.NativeOptions{
			Quorum:        cfg.Quorum(),
			ZookeeperRoot: cfg.ZookeeperRoot,
			EffectiveUser: cfg.EffectiveUser,
			Timeout:       cfg.Timeout,
		})
	case config.BackendThrift:
		headers := make([]client.Header, 0, len(cfg.ThriftHeaders))
		for _, h := range cfg.ThriftHeaders {
			headers = append(headers, client.Header{Key: h.Key, Value: h.Value})
		}
		return client.NewThriftClient(cfg.ThriftAddress, headers, cfg.Timeout)
	case config.BackendMemory:
		m := client.NewMemoryClient()
		for table, families := range cfg.MemoryTables {
			m.CreateTable(table, families...)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

// Connector hands out one shared DB, built on first use. Use it where a process wide connection
// is wanted; otherwise build a DB with NewHBase and pass it around.
type Connector struct {
	mu   sync.Mutex
	cfg  *config.Config
	opts []Option
	db   *DB
	dial func(*config.Config, ...Option) (*DB, error)
}

func NewConnector(cfg *config.Config, opts ...Option) *Connector {
	return &Connector{cfg: cfg, opts: opts, dial: NewHBase}
}

// Connection returns the shared DB, connecting if there is none. Every call until Close returns
// the same DB.
func (c *Connector) Connection() (*DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db, nil
	}
	db, err := c.dial(c.cfg, c.opts...)
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

// Close releases the shared DB if there is one. The next Connection connects again.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	db := c.db
	c.db = nil
	return db.Close()
}

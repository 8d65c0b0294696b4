package hbaseutils

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/challenai/hbaseutils/config"
	"github.com/challenai/hbaseutils/logger"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Backend = config.BackendMemory
	cfg.MemoryTables = map[string][]string{"t1": {"cf1"}}
	return cfg
}

func TestNewHBase(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	db, err := NewHBase(memoryConfig(), WithLogger(logger.Nop()))
	req.NoError(err)
	defer db.Close()

	req.NoError(db.Add(ctx, "t1", "row1", "cf1", map[string]string{"name": "bob"}))
	entries, err := db.GetResultByTableAndRowKey(ctx, "t1", "row1")
	req.NoError(err)
	req.Len(entries, 1)

	_, err = NewHBase(config.Default())
	req.True(errors.Is(err, ErrConnection))
	req.Contains(err.Error(), "zookeeper quorum is required")
}

func TestNewClient_Backends(t *testing.T) {
	req := require.New(t)

	cfg := config.Default()
	cfg.ZookeeperQuorum = []string{"zk-1", "zk-2", "zk-3"}
	c, err := NewClient(cfg)
	req.NoError(err)
	req.NoError(c.Close())

	cfg = config.Default()
	cfg.Backend = "rest"
	_, err = NewClient(cfg)
	req.Error(err)
}

func TestConnector(t *testing.T) {
	req := require.New(t)

	dials := 0
	c := NewConnector(memoryConfig(), WithLogger(logger.Nop()))
	dial := c.dial
	c.dial = func(cfg *config.Config, opts ...Option) (*DB, error) {
		dials++
		return dial(cfg, opts...)
	}

	first, err := c.Connection()
	req.NoError(err)
	second, err := c.Connection()
	req.NoError(err)
	req.Same(first, second)
	req.Equal(1, dials)

	req.NoError(c.Close())
	req.NoError(c.Close())

	third, err := c.Connection()
	req.NoError(err)
	req.NotSame(first, third)
	req.Equal(2, dials)
	req.NoError(c.Close())
}

func TestConnector_DialFailure(t *testing.T) {
	req := require.New(t)

	boom := errors.New("zookeeper unreachable")
	c := NewConnector(memoryConfig())
	c.dial = func(*config.Config, ...Option) (*DB, error) { return nil, boom }

	db, err := c.Connection()
	req.Nil(db)
	req.Equal(boom, err)
	req.NoError(c.Close())
}

func TestConnector_ConcurrentFirstUse(t *testing.T) {
	req := require.New(t)

	var (
		mu    sync.Mutex
		dials int
	)
	c := NewConnector(memoryConfig(), WithLogger(logger.Nop()))
	dial := c.dial
	c.dial = func(cfg *config.Config, opts ...Option) (*DB, error) {
		mu.Lock()
		dials++
		mu.Unlock()
		return dial(cfg, opts...)
	}
	defer c.Close()

	const workers = 16
	dbs := make([]*DB, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dbs[i], errs[i] = c.Connection()
		}(i)
	}
	wg.Wait()

	req.Equal(1, dials)
	for i := 0; i < workers; i++ {
		req.NoError(errs[i])
		req.Same(dbs[0], dbs[i])
	}
}

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendNative = "native"
	BackendThrift = "thrift"
	BackendMemory = "memory"

	DefaultZookeeperPort = 2181
	DefaultZookeeperRoot = "/hbase"
	DefaultTimeout       = 10 * time.Second
	DefaultScanBatchSize = 64
)

// Header is an extra HTTP header sent to a Thrift gateway.
type Header struct {
	Key, Value string
}

// Config describes how to reach the cluster. Nothing about a cluster is compiled in.
type Config struct {
	Backend string

	ZookeeperQuorum []string
	ZookeeperPort   int
	ZookeeperRoot   string
	EffectiveUser   string

	ThriftAddress string
	ThriftHeaders []Header

	// MemoryTables maps a table to its column families for the memory backend.
	MemoryTables map[string][]string

	Timeout       time.Duration
	ScanBatchSize int32

	LogLevel string
	LogFile  string
}

// Default returns a config with every optional setting filled in.
func Default() *Config {
	return &Config{
		Backend:       BackendNative,
		ZookeeperPort: DefaultZookeeperPort,
		ZookeeperRoot: DefaultZookeeperRoot,
		Timeout:       DefaultTimeout,
		ScanBatchSize: DefaultScanBatchSize,
		MemoryTables:  map[string][]string{},
	}
}

// Load reads a `key = value` config file on top of Default.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads config lines from r. Lines starting with # are comments.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	scanner := bufio.NewScanner(r)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected key = value", lineNo)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.set(key, value); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return cfg, nil
}

func (c *Config) set(key, value string) error {
	var err error
	switch key {
	case "backend":
		c.Backend = value
	case "zookeeper_quorum":
		c.ZookeeperQuorum = splitList(value)
	case "zookeeper_port":
		c.ZookeeperPort, err = strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid zookeeper port value: %w", err)
		}
	case "zookeeper_root":
		c.ZookeeperRoot = value
	case "effective_user":
		c.EffectiveUser = value
	case "thrift_address":
		c.ThriftAddress = value
	case "thrift_header":
		name, val, ok := strings.Cut(value, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return fmt.Errorf("invalid thrift header %q, expected Name: value", value)
		}
		c.ThriftHeaders = append(c.ThriftHeaders, Header{Key: strings.TrimSpace(name), Value: strings.TrimSpace(val)})
	case "memory_tables":
		for _, entry := range splitList(value) {
			table, fams, _ := strings.Cut(entry, ":")
			var families []string
			for _, f := range strings.Split(fams, "|") {
				if f = strings.TrimSpace(f); f != "" {
					families = append(families, f)
				}
			}
			c.MemoryTables[strings.TrimSpace(table)] = families
		}
	case "timeout_seconds":
		secs, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		c.Timeout = time.Duration(secs) * time.Second
	case "scan_batch_size":
		n, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid scan batch size value: %w", err)
		}
		c.ScanBatchSize = int32(n)
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendNative:
		if len(c.ZookeeperQuorum) == 0 {
			errs = append(errs, errors.New("zookeeper quorum is required"))
		}
		if c.ZookeeperPort <= 0 || c.ZookeeperPort > 65535 {
			errs = append(errs, errors.New("zookeeper port must be between 1 and 65535"))
		}
	case BackendThrift:
		if c.ThriftAddress == "" {
			errs = append(errs, errors.New("thrift address is required"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.ScanBatchSize <= 0 {
		errs = append(errs, errors.New("scan batch size must be positive"))
	}
	return errors.Join(errs...)
}

// Quorum joins the quorum hosts with the client port, e.g. "zk1:2181,zk2:2181".
// Hosts that already carry a port keep it.
func (c *Config) Quorum() string {
	hosts := make([]string, 0, len(c.ZookeeperQuorum))
	for _, h := range c.ZookeeperQuorum {
		if strings.Contains(h, ":") {
			hosts = append(hosts, h)
			continue
		}
		hosts = append(hosts, fmt.Sprintf("%s:%d", h, c.ZookeeperPort))
	}
	return strings.Join(hosts, ",")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/challenai/hbaseutils"
	"github.com/challenai/hbaseutils/config"
	"github.com/challenai/hbaseutils/logger"
)

const usage = `usage: hbaseutils [-config path] <command> [args]

commands:
  put <table> <row> <family> <qualifier=value>...
  get <table> <row>
  delete <table> <row>
  scan <table> [-prefix p] [-start s] [-stop s] [-limit n]
  exists <table>
`

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "hbaseutils:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hbaseutils", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "path to the config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	log, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}

	db, err := hbaseutils.NewHBase(cfg, hbaseutils.WithLogger(log))
	if err != nil {
		return err
	}
	defer db.Close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "put":
		return put(ctx, db, rest)
	case "get":
		if len(rest) != 2 {
			return errors.New("usage: get <table> <row>")
		}
		entries, err := db.GetResultByTableAndRowKey(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		return hbaseutils.WriteEntries(stdout, entries)
	case "delete":
		if len(rest) != 2 {
			return errors.New("usage: delete <table> <row>")
		}
		return db.Delete(ctx, rest[0], rest[1])
	case "scan":
		return scan(ctx, db, rest, stdout, stderr)
	case "exists":
		if len(rest) != 1 {
			return errors.New("usage: exists <table>")
		}
		_, err := db.Table(ctx, rest[0])
		if errors.Is(err, hbaseutils.ErrTableNotFound) {
			_, err = fmt.Fprintln(stdout, "false")
			return err
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, "true")
		return err
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func newLogger(cfg *config.Config, stderr io.Writer) (logger.Logger, error) {
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.LogFile != "" {
		l, err := logger.NewFileLogger(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		l.SetLevel(lvl)
		return l, nil
	}
	l := logger.New(zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).With().Timestamp().Logger())
	l.SetLevel(lvl)
	return l, nil
}

func put(ctx context.Context, db *hbaseutils.DB, args []string) error {
	if len(args) < 4 {
		return errors.New("usage: put <table> <row> <family> <qualifier=value>...")
	}
	data := make(map[string]string, len(args)-3)
	for _, kv := range args[3:] {
		qualifier, value, ok := strings.Cut(kv, "=")
		if !ok || qualifier == "" {
			return fmt.Errorf("invalid column %q, expected qualifier=value", kv)
		}
		data[qualifier] = value
	}
	return db.Add(ctx, args[0], args[1], args[2], data)
}

func scan(ctx context.Context, db *hbaseutils.DB, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errors.New("usage: scan <table> [-prefix p] [-start s] [-stop s] [-limit n]")
	}
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	s := &hbaseutils.Scan{}
	fs.StringVar(&s.Prefix, "prefix", "", "row key prefix")
	fs.StringVar(&s.StartRow, "start", "", "first row, inclusive")
	fs.StringVar(&s.StopRow, "stop", "", "last row, exclusive")
	limit := fs.Int("limit", 0, "maximum rows, 0 for all")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	s.Limit = int32(*limit)
	return db.PrintScan(ctx, stdout, args[0], s)
}

// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/docgrid/internal/cache"
	"github.com/docgrid/internal/config"
	"github.com/docgrid/internal/fetcher"
	"github.com/docgrid/internal/grid"
	"github.com/docgrid/internal/logger"
	"github.com/docgrid/internal/table"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run decodes one document to stdout and returns the process exit code
func run(ctx context.Context, args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("grid-decoder", flag.ContinueOnError)
	configPath := flags.String("config", "", "Path to config file (default: ./docgrid.yaml or ~/.docgrid/docgrid.yaml)")
	source := flags.String("source", "", "Published document URL or local HTML file (overrides config)")
	refresh := flags.Bool("refresh", false, "Drop the cached copy of the document before fetching")
	debug := flags.Bool("debug", false, "Enable debug logging")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("Failed to load config: %v", err)
		return 1
	}
	src := *source
	if src == "" && flags.NArg() > 0 {
		src = flags.Arg(0)
	}
	config.ApplyFlags(cfg, src, "", "", "", nil)

	if _, err := logger.Init(cfg.Log.File, cfg.Log.Debug || *debug); err != nil {
		logger.Errorf("Failed to initialize logger: %v", err)
		return 1
	}
	defer logger.GetDefault().Close()

	if cfg.Grid.Source == "" {
		logger.Errorf("No document source: pass -source or set grid.source")
		return 1
	}

	f, closeCache := newFetcher(ctx, cfg)
	defer closeCache()

	if *refresh {
		if err := f.Evict(ctx, cfg.Grid.Source); err != nil {
			logger.Warnf("%v", err)
		}
	}

	rows, err := decode(ctx, f, cfg.Grid.Source)
	if err != nil {
		logger.Errorf("Failed to decode grid from %s: %v", cfg.Grid.Source, err)
		return 1
	}

	if err := printRows(stdout, rows); err != nil {
		logger.Errorf("Failed to print grid: %v", err)
		return 1
	}
	return 0
}

// newFetcher builds the document fetcher, with the Redis cache when one is
// configured and reachable. The returned func releases the Redis client.
func newFetcher(ctx context.Context, cfg *config.Config) (*fetcher.Fetcher, func()) {
	opts := []fetcher.Option{fetcher.WithUserAgent(cfg.Fetch.UserAgent)}
	closeCache := func() {}

	redisClient, err := config.NewRedisClient(ctx, cfg.Cache)
	if err != nil {
		logger.Warnf("Document cache disabled: %v", err)
	} else if redisClient != nil {
		closeCache = func() { redisClient.Close() }
		docCache, err := cache.NewRedisCache(redisClient, "")
		if err != nil {
			logger.Warnf("Document cache disabled: %v", err)
		} else {
			opts = append(opts, fetcher.WithCache(docCache, cfg.Cache.TTL))
		}
	}

	return fetcher.New(cfg.Fetch.Timeout, opts...), closeCache
}

// decode fetches the document and renders its coordinate table. Nothing is
// returned unless every row is valid.
func decode(ctx context.Context, f *fetcher.Fetcher, src string) ([]string, error) {
	data, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	placements, err := table.ExtractPlacements(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	width, height := grid.Dimensions(placements)
	logger.Printf("Decoded %d placements into a %dx%d grid", len(placements), width, height)

	return grid.Render(placements)
}

func printRows(w io.Writer, rows []string) error {
	bw := bufio.NewWriter(w)
	for _, row := range rows {
		if _, err := fmt.Fprintln(bw, row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

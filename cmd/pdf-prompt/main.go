// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/gen2brain/beeep"

	"github.com/docgrid/internal/ai"
	"github.com/docgrid/internal/config"
	"github.com/docgrid/internal/history"
	"github.com/docgrid/internal/logger"
	"github.com/docgrid/internal/prompt"
	"github.com/docgrid/internal/runner"
	"github.com/docgrid/internal/watcher"
	"github.com/docgrid/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run prompts the model for every document (or the fixed prompt) and returns the exit code
func run(ctx context.Context, args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("pdf-prompt", flag.ContinueOnError)
	configPath := flags.String("config", "", "Path to config file (default: ./docgrid.yaml or ~/.docgrid/docgrid.yaml)")
	templatePath := flags.String("template", "", "Prompt template file (overrides config)")
	provider := flags.String("provider", "", "AI provider: openai, gemini or mock (overrides config)")
	model := flags.String("model", "", "Model name (overrides config)")
	watchDirs := flags.String("watch", "", "Comma-separated directories to watch for new documents (overrides config)")
	notify := flags.Bool("notify", false, "Show a desktop notification when a watched document is answered")
	recent := flags.Int("recent", 0, "Print the N most recent runs from history as JSON and exit")
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
	config.ApplyFlags(cfg, "", *provider, *model, *templatePath, config.SplitList(*watchDirs))
	if *notify {
		cfg.Watch.Notify = true
	}

	if _, err := logger.Init(cfg.Log.File, cfg.Log.Debug || *debug); err != nil {
		logger.Errorf("Failed to initialize logger: %v", err)
		return 1
	}
	defer logger.GetDefault().Close()

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Errorf("Failed to open history: %v", err)
			return 1
		}
		defer store.Close()
	}

	if *recent > 0 {
		if store == nil {
			logger.Errorf("History is disabled: set history.path")
			return 1
		}
		if err := printRecent(stdout, store, *recent); err != nil {
			logger.Errorf("Failed to list history: %v", err)
			return 1
		}
		return 0
	}

	completer, err := ai.NewCompleter(ctx, cfg.AI)
	if err != nil {
		logger.Errorf("Failed to initialize AI provider: %v", err)
		return 1
	}
	logger.Printf("Using provider=%s model=%s key=%s", cfg.AI.Provider, completer.Model(), config.MaskAPIKey(cfg.AI.APIKey))

	files := flags.Args()
	fixedMode := len(files) == 0 && len(cfg.Watch.Paths) == 0

	tmpl, err := loadTemplate(cfg.Prompt.Template, fixedMode)
	if err != nil {
		logger.Errorf("Failed to load prompt template: %v", err)
		return 1
	}

	opts := runner.Options{
		SystemPrompt: cfg.AI.SystemPrompt,
		MaxChars:     cfg.Prompt.MaxChars,
		Overlap:      cfg.Prompt.Overlap,
	}
	if store != nil {
		opts.Recorder = store
	}
	r := runner.New(completer, tmpl, opts)

	if fixedMode {
		replies, err := r.ProcessText(ctx, "", "")
		if err != nil {
			logger.Errorf("Prompt failed: %v", err)
			return 1
		}
		printReplies(stdout, "", replies)
		return 0
	}

	failed := 0
	for _, path := range files {
		replies, err := r.ProcessFile(ctx, path)
		if err != nil {
			logger.Errorf("%v", err)
			failed++
			continue
		}
		header := ""
		if len(files) > 1 {
			header = path
		}
		printReplies(stdout, header, replies)
	}

	if len(cfg.Watch.Paths) > 0 {
		if err := watch(ctx, r, cfg, stdout); err != nil {
			logger.Errorf("Watcher failed: %v", err)
			return 1
		}
	}

	if failed > 0 {
		logger.Errorf("%d of %d documents failed", failed, len(files))
		return 1
	}
	return 0
}

// loadTemplate reads the configured template. Without a document and without a
// template file the fixed prompt is used.
func loadTemplate(path string, fixedMode bool) (*prompt.Template, error) {
	if fixedMode && path == "" {
		return prompt.Fixed(), nil
	}
	return prompt.Load(path)
}

func watch(ctx context.Context, r *runner.Runner, cfg *config.Config, stdout io.Writer) error {
	var outMu sync.Mutex
	pool := worker.NewPool(ctx, cfg.Watch.Workers, cfg.Watch.Workers*4, func(ctx context.Context, job worker.Job) error {
		replies, err := r.ProcessFile(ctx, job.Path)
		if err != nil {
			return err
		}
		outMu.Lock()
		printReplies(stdout, job.Path, replies)
		outMu.Unlock()

		if cfg.Watch.Notify {
			if err := beeep.Notify("docgrid", fmt.Sprintf("Reply ready for %s", filepath.Base(job.Path)), ""); err != nil {
				logger.Warnf("Failed to send OS notification: %v", err)
			}
		}
		return nil
	})
	defer pool.Close()

	w, err := watcher.New(cfg.Watch.Paths, cfg.Watch.Debounce, func(ctx context.Context, path string) {
		if err := pool.Submit(ctx, worker.Job{Path: path}); err != nil {
			logger.Warnf("Dropped %s: %v", path, err)
		}
	})
	if err != nil {
		return err
	}

	logger.Printf("Watching for documents with %d workers. Press Ctrl+C to stop.", cfg.Watch.Workers)
	return w.Run(ctx)
}

func printReplies(w io.Writer, header string, replies []string) {
	if header != "" {
		fmt.Fprintf(w, "==> %s <==\n", header)
	}
	for i, reply := range replies {
		if len(replies) > 1 {
			fmt.Fprintf(w, "--- part %d/%d ---\n", i+1, len(replies))
		}
		fmt.Fprintln(w, reply)
	}
}

func printRecent(w io.Writer, store *history.Store, limit int) error {
	runs, err := store.Recent(limit)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(runs)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"

	"github.com/text-analyzer/backend/service"
)

// reanalyzeDelay is how long a watched file must stay unchanged before it is analyzed again
const reanalyzeDelay = time.Second

type app struct {
	svc    *service.Service
	out    io.Writer
	format service.Format
	json   bool
	logger *log.Logger

	mu sync.Mutex // serializes output
}

func (a *app) analyze(ctx context.Context, text string) error {
	res, err := a.svc.Analyze(ctx, service.Request{Text: text, Format: a.format})
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return printReport(a.out, res.Report, a.json)
}

func (a *app) analyzeFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return a.analyze(ctx, string(data))
}

// watch analyzes path once, then again after every burst of writes settles.
// Blank content is logged and skipped rather than ending the watch.
func (a *app) watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory so editors that replace the file are still seen
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	reanalyze := func() {
		if err := a.analyzeFile(ctx, abs); err != nil {
			a.logger.Warn("analysis skipped", "file", path, "err", err)
		}
	}
	reanalyze()

	debounced, cancel := debounce.New(reanalyzeDelay, reanalyze)
	defer cancel()

	a.logger.Info("watching for changes", "file", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounced()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "err", err)
		}
	}
}

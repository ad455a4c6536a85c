// stampgen generates boilerplate methods from annotated type
// definitions described by a YAML manifest.
// Run: stampgen -manifest stamp.yaml [-watch]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/stamp/compiler/gen"
)

func main() {
	var (
		manifest = flag.String("manifest", "stamp.yaml", "path to the run manifest")
		watch    = flag.Bool("watch", false, "re-run whenever the manifest or a definition file changes")
		workers  = flag.Int("workers", 0, "number of parallel workers (0 means GOMAXPROCS)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *manifest, *workers); err != nil {
		fmt.Fprintf(os.Stderr, "stampgen: %v\n", err)
		if !*watch {
			os.Exit(1)
		}
	}
	if !*watch {
		return
	}
	if err := watchLoop(ctx, *manifest, *workers); err != nil {
		fmt.Fprintf(os.Stderr, "stampgen: %v\n", err)
		os.Exit(1)
	}
}

// run executes one full generation pass.
func run(ctx context.Context, path string, workers int) error {
	m, err := gen.LoadManifest(path)
	if err != nil {
		return err
	}
	opts := m.Options()
	if workers > 0 {
		opts = append(opts, gen.WithWorkers(workers))
	}
	g, err := gen.NewGenerator(opts...)
	if err != nil {
		return err
	}
	defs, err := m.Load()
	if err != nil {
		return err
	}
	report, err := g.Write(ctx, defs)
	if err != nil {
		return err
	}
	if report.Failed() {
		if err := report.Render(os.Stderr); err != nil {
			return err
		}
		return fmt.Errorf("%d of %d definitions failed", len(report.Diagnostics()), len(defs))
	}
	fmt.Printf("stampgen: generated %d definitions into %s\n", len(defs), g.Config().Target)
	return nil
}

// watchLoop re-runs generation whenever the manifest or one of the
// definition directories changes. Rapid event bursts are debounced.
func watchLoop(ctx context.Context, path string, workers int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addWatches(w, path); err != nil {
		return err
	}
	fmt.Printf("stampgen: watching %s\n", path)

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			fmt.Fprintf(os.Stderr, "stampgen: watch: %v\n", err)
		case ev := <-w.Events:
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(500*time.Millisecond, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case <-rerun:
			if err := run(ctx, path, workers); err != nil {
				fmt.Fprintf(os.Stderr, "stampgen: %v\n", err)
			}
			// The manifest may list new definition directories.
			if err := addWatches(w, path); err != nil {
				fmt.Fprintf(os.Stderr, "stampgen: %v\n", err)
			}
		}
	}
}

// addWatches registers the manifest file and the directories its
// definition globs point into. Registering an already-watched path is
// a no-op.
func addWatches(w *fsnotify.Watcher, path string) error {
	if err := w.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	m, err := gen.LoadManifest(path)
	if err != nil {
		return err
	}
	for _, pattern := range m.Definitions {
		dir := filepath.Dir(pattern)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		if err := w.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "stampgen: watch %s: %v\n", dir, err)
		}
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gerunddev/hybridnote/internal/state"
	"github.com/gerunddev/hybridnote/internal/styles"
	"github.com/gerunddev/hybridnote/internal/sync"
)

// Sync converts a directory of notes into the other dialect.
// Usage: sync <src-dir> <dst-dir> [--from markdown|org] [--dry-run] [--force]
// [--watch [--interval 30s]]
func (e *Env) Sync(raw []string) error {
	a, err := parseArgs(raw, "dry-run", "force", "watch")
	if err != nil {
		return err
	}
	if len(a.positional) != 2 {
		return fmt.Errorf("sync: expected a source and a destination directory")
	}

	from := e.Config.DefaultFormat
	if v, ok := a.flag("from"); ok {
		from = v
	}

	st, err := state.Load(e.Config.StateFile)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	syncer := sync.NewSyncer(e.Config, st)
	syncer.SetLogger(e.Log)
	opts := sync.Options{
		SourceDir: a.positional[0],
		DestDir:   a.positional[1],
		From:      from,
		DryRun:    a.has("dry-run"),
		Force:     a.has("force"),
	}

	if a.has("watch") {
		interval := 30 * time.Second
		if v, ok := a.flag("interval"); ok {
			interval, err = time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid interval: %w", err)
			}
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintln(e.Out, styles.DimStyle.Render(fmt.Sprintf("Watching %s every %v (Ctrl+C to stop)", opts.SourceDir, interval)))
		save := func() error {
			if opts.DryRun {
				return nil
			}
			return st.Save(e.Config.StateFile)
		}
		return syncer.Watch(ctx, opts, interval, save, e.printResult)
	}

	result, err := syncer.Sync(opts)
	if err != nil {
		return err
	}
	e.printResult(result)

	if opts.DryRun {
		return nil
	}
	if err := st.Save(e.Config.StateFile); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("%d notes failed to convert", len(result.Errors))
	}
	return nil
}

func (e *Env) printResult(result *sync.SyncResult) {
	verb := "✓"
	if result.DryRun {
		verb = "would convert"
	}
	for _, dest := range result.Converted {
		fmt.Fprintln(e.Out, styles.SuccessStyle.Render(verb+" "+dest))
	}
	for _, path := range result.Pruned {
		fmt.Fprintln(e.Out, styles.DimStyle.Render("forgot "+path))
	}
	for _, err := range result.Errors {
		fmt.Fprintln(e.Out, styles.ErrorStyle.Render("✗ "+err.Error()))
	}
	fmt.Fprintln(e.Out, result.String())
}

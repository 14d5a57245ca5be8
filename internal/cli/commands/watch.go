package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krispya/graft/internal/cli/config"
	"github.com/krispya/graft/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run inlining whenever source files change",
		Long: `Watch the configured source tree and re-run the inliner on every batch
of changes. Each batch starts a fresh session, so edits to tagged
functions propagate to every call site on the next save.

Rewrites happen in place. Changes within the debounce window coalesce
into a single run.

Examples:
  graft watch
  graft watch --debounce 250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a batch of changes is processed")

	return cmd
}

func runWatch(cmd *cobra.Command, debounce time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// One full pass up front so the tree starts consistent
	if err := watchPass(cmd, cfg); err != nil {
		return err
	}

	watcher, err := watch.New(watch.Options{
		BaseDir:  cfg.Source.BaseDir,
		Include:  cfg.Source.Include,
		Exclude:  cfg.Source.Exclude,
		Debounce: debounce,
		OnChange: func(files []string) error {
			color.New(color.FgCyan).Fprintf(cmd.OutOrStdout(), "\n%d file(s) changed, re-running\n", len(files))
			return watchPass(cmd, cfg)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	banner := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(cmd.OutOrStdout())
	banner.Fprintln(cmd.OutOrStdout(), "Graft watching for changes")
	color.New(color.FgWhite).Fprintf(cmd.OutOrStdout(), "   Base dir: %s\n", cfg.Source.BaseDir)
	color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "   Press Ctrl+C to stop")
	fmt.Fprintln(cmd.OutOrStdout())

	<-sigChan

	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
	if err := watcher.Stop(); err != nil {
		return fmt.Errorf("error stopping watcher: %w", err)
	}
	return nil
}

// watchPass runs one in-place transformation of the whole configured tree
// with a fresh session. Changed inputs invalidate collected metadata, so
// sessions never survive a batch.
func watchPass(cmd *cobra.Command, cfg *config.Config) error {
	files, err := enumerateSources(cfg, nil)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	session := newSession(cfg, files)
	rewritten, err := transformAll(cmd, session, cfg, files, "", false)
	if err != nil {
		return err
	}

	stats := session.End()
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
		"rewrote %d of %d file(s), %d call(s) inlined\n",
		rewritten, len(files), stats.TotalInlined())
	return nil
}

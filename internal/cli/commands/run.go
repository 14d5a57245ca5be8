package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krispya/graft/internal/cli/config"
	"github.com/krispya/graft/internal/cli/ui"
	"github.com/krispya/graft/internal/utils"
	"github.com/krispya/graft/pkg/inliner"
)

var (
	runOut    string
	runDryRun bool
	runJSON   bool
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path...]",
		Short: "Inline tagged functions across the source tree",
		Long: `Enumerate source files, collect every function tagged @inline or @pure,
and rewrite call sites. Files are rewritten in place unless --out names a
destination directory or --dry-run is set.

With no arguments the files come from graft.yml (source.base_dir plus the
include/exclude globs). Arguments name files or directories to process
instead; directories are searched with the configured globs.

Examples:
  graft run
  graft run src/hot-path
  graft run --dry-run
  graft run --out build/inlined --json`,
		RunE: runRun,
	}

	cmd.Flags().StringVarP(&runOut, "out", "o", "", "Write results under this directory instead of in place")
	cmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Report what would change without writing anything")
	cmd.Flags().BoolVar(&runJSON, "json", false, "Print session statistics as JSON")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	files, err := enumerateSources(cfg, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No source files matched the configured patterns")
		return nil
	}

	session := newSession(cfg, files)
	rewritten, err := transformAll(cmd, session, cfg, files, runOut, runDryRun)
	if err != nil {
		return err
	}

	stats := session.End()
	if runJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	printSummary(cmd, stats, len(files), rewritten)
	return nil
}

// newSession builds an engine session from the loaded configuration and the
// enumerated seed files
func newSession(cfg *config.Config, files []string) *inliner.Session {
	opts := inliner.Options{
		Files:           files,
		FollowReExports: cfg.Discovery.FollowReExports,
		FollowImports:   cfg.ImportPolicy(),
		Debug:           cfg.DebugLevel(),
		Exclude:         excludeFilter(cfg),
	}
	return inliner.New(opts)
}

// excludeFilter adapts the configured exclude globs into the engine's file
// filter. Discovery can pull in files the enumeration never listed (import
// and re-export targets), so the globs apply there too.
func excludeFilter(cfg *config.Config) func(string) bool {
	base := cfg.Source.BaseDir
	patterns := cfg.Source.Exclude
	return func(file string) bool {
		rel, err := filepath.Rel(base, file)
		if err != nil {
			rel = file
		}
		return utils.MatchesAny(patterns, filepath.ToSlash(rel))
	}
}

// enumerateSources resolves the run's file set. Arguments win over the
// configured base directory; directory arguments are searched with the
// configured globs.
func enumerateSources(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		return utils.FindSourceFiles(cfg.Source.BaseDir, cfg.Source.Include, cfg.Source.Exclude)
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if info.IsDir() {
			found, err := utils.FindSourceFiles(arg, cfg.Source.Include, cfg.Source.Exclude)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, filepath.ToSlash(arg))
	}
	return files, nil
}

// transformAll feeds every file through the session and writes back what
// changed. Per-file failures are reported and skipped; they never stop the
// run.
func transformAll(cmd *cobra.Command, session *inliner.Session, cfg *config.Config, files []string, outDir string, dryRun bool) (int, error) {
	warn := color.New(color.FgYellow)
	info := color.New(color.FgCyan)

	rewritten := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			warn.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", file, err)
			continue
		}

		out, err := session.Transform(content, file)
		if err != nil {
			warn.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", file, err)
			continue
		}
		if out == string(content) {
			continue
		}
		rewritten++

		if dryRun {
			info.Fprintf(cmd.OutOrStdout(), "would rewrite %s\n", file)
			continue
		}

		dest := file
		if outDir != "" {
			rel, err := filepath.Rel(cfg.Source.BaseDir, file)
			if err != nil {
				rel = filepath.Base(file)
			}
			dest = filepath.Join(outDir, rel)
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return rewritten, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(dest, []byte(out), 0644); err != nil {
			return rewritten, fmt.Errorf("failed to write %s: %w", dest, err)
		}
	}
	return rewritten, nil
}

func printSummary(cmd *cobra.Command, stats *inliner.Stats, scanned, rewritten int) {
	out := cmd.OutOrStdout()

	color.New(color.FgGreen, color.Bold).Fprintln(out, "Inlining complete")

	kv := ui.NewKeyValueTable(out, false)
	kv.AddRow("Files scanned", fmt.Sprintf("%d", scanned))
	kv.AddRow("Files rewritten", fmt.Sprintf("%d", rewritten))
	kv.AddRow("Functions collected", fmt.Sprintf("%d", stats.FunctionsCollected))
	kv.AddRow("Calls inlined", fmt.Sprintf("%d", stats.TotalInlined()))
	kv.AddRow("Collect time", fmt.Sprintf("%dms", stats.CollectMillis))
	kv.AddRow("Transform time", fmt.Sprintf("%dms", stats.TransformMillis))
	kv.Render()

	if len(stats.TransformedFunctions) == 0 {
		return
	}
	fmt.Fprintln(out)
	table := ui.NewTable(out, []string{"Function", "Inlined calls", "Pure"}, nil)
	for _, fn := range stats.TransformedFunctions {
		table.AddRow(fn.Name, fmt.Sprintf("%d", fn.Inlined), yesNo(fn.Pure))
	}
	table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/krispya/graft/internal/cli/config"
)

var (
	initDefaults bool
	initForce    bool
)

// initAnswers holds what the prompts (or defaults) decide
type initAnswers struct {
	BaseDir         string
	Include         string
	Exclude         string
	FollowReExports bool
	FollowImports   string
	Debug           string
}

func defaultAnswers() initAnswers {
	return initAnswers{
		BaseDir:         ".",
		Include:         "src/**/*.{ts,tsx,js,jsx,mjs,cjs}",
		Exclude:         "**/node_modules/**, **/*.test.*, **/*.spec.*",
		FollowReExports: true,
		FollowImports:   "all",
		Debug:           "off",
	}
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a graft.yml configuration",
		Long: `Scaffold a graft.yml in the current directory. Prompts walk through the
source root, include/exclude globs, discovery policy, and debug level;
--defaults skips the prompts and writes the standard configuration.

Examples:
  graft init
  graft init --defaults
  graft init --force`,
		RunE: runInit,
	}

	cmd.Flags().BoolVarP(&initDefaults, "defaults", "y", false, "Write the default configuration without prompting")
	cmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing graft.yml")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	if config.InProject() && !initForce {
		return fmt.Errorf("graft.yml already exists (use --force to overwrite)")
	}

	answers := defaultAnswers()
	if !initDefaults {
		if err := promptAnswers(&answers); err != nil {
			return err
		}
	}

	if err := os.WriteFile("graft.yml", []byte(renderConfig(answers)), 0644); err != nil {
		return fmt.Errorf("failed to write graft.yml: %w", err)
	}

	color.New(color.FgGreen, color.Bold).Fprintln(cmd.OutOrStdout(), "Created graft.yml")
	color.New(color.FgCyan).Fprintln(cmd.OutOrStdout(), "Tag functions with // @inline and run: graft run")
	return nil
}

func promptAnswers(answers *initAnswers) error {
	prompts := []*survey.Question{
		{
			Name:   "BaseDir",
			Prompt: &survey.Input{Message: "Source base directory:", Default: answers.BaseDir},
		},
		{
			Name:   "Include",
			Prompt: &survey.Input{Message: "Include glob:", Default: answers.Include},
		},
		{
			Name:   "Exclude",
			Prompt: &survey.Input{Message: "Exclude globs (comma separated):", Default: answers.Exclude},
		},
		{
			Name:   "FollowReExports",
			Prompt: &survey.Confirm{Message: "Follow re-export edges during discovery?", Default: answers.FollowReExports},
		},
		{
			Name: "FollowImports",
			Prompt: &survey.Select{
				Message: "Which import edges should discovery follow?",
				Options: []string{"all", "side-effects", "off"},
				Default: answers.FollowImports,
			},
		},
		{
			Name: "Debug",
			Prompt: &survey.Select{
				Message: "Debug verbosity:",
				Options: []string{"off", "summary", "verbose"},
				Default: answers.Debug,
			},
		},
	}
	return survey.Ask(prompts, answers)
}

// renderConfig produces the graft.yml text for the chosen answers
func renderConfig(answers initAnswers) string {
	var b strings.Builder

	fmt.Fprintln(&b, "source:")
	fmt.Fprintf(&b, "  base_dir: %q\n", answers.BaseDir)
	fmt.Fprintln(&b, "  include:")
	for _, pattern := range splitPatterns(answers.Include) {
		fmt.Fprintf(&b, "    - %q\n", pattern)
	}
	fmt.Fprintln(&b, "  exclude:")
	for _, pattern := range splitPatterns(answers.Exclude) {
		fmt.Fprintf(&b, "    - %q\n", pattern)
	}
	fmt.Fprintln(&b, "discovery:")
	fmt.Fprintf(&b, "  follow_re_exports: %t\n", answers.FollowReExports)
	fmt.Fprintf(&b, "  follow_imports: %s\n", answers.FollowImports)
	fmt.Fprintf(&b, "debug: %s\n", answers.Debug)

	return b.String()
}

func splitPatterns(raw string) []string {
	var patterns []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeProject lays down a minimal project in a temp directory and chdirs
// into it: one @inline function and one caller that imports it.
func writeProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })

	if err := os.MkdirAll("src", 0755); err != nil {
		t.Fatalf("failed to create src dir: %v", err)
	}

	math := `// @inline
export function double(x) {
  return x * 2;
}
`
	app := `import { double } from './math';

export function compute(n) {
  const y = double(n);
  return y + 1;
}
`
	if err := os.WriteFile(filepath.Join("src", "math.ts"), []byte(math), 0644); err != nil {
		t.Fatalf("failed to write math.ts: %v", err)
	}
	if err := os.WriteFile(filepath.Join("src", "app.ts"), []byte(app), 0644); err != nil {
		t.Fatalf("failed to write app.ts: %v", err)
	}
	return tmpDir
}

func resetRunFlags() {
	runOut = ""
	runDryRun = false
	runJSON = false
}

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()

	if cmd.Use != "run [path...]" {
		t.Errorf("expected Use to be 'run [path...]', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	// Check flags are registered
	for _, flag := range []string{"out", "dry-run", "json"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to be registered", flag)
		}
	}
}

func TestRunRun_RewritesTaggedCalls(t *testing.T) {
	writeProject(t)
	resetRunFlags()

	var buf bytes.Buffer
	cmd := NewRunCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("runRun failed: %v", err)
	}

	out, err := os.ReadFile(filepath.Join("src", "app.ts"))
	if err != nil {
		t.Fatalf("failed to read app.ts: %v", err)
	}
	text := string(out)

	if strings.Contains(text, "double(") {
		t.Errorf("expected inlined call to be gone, got:\n%s", text)
	}
	if !strings.Contains(text, "n * 2") {
		t.Errorf("expected inlined body in output, got:\n%s", text)
	}
}

func TestRunRun_DryRunLeavesFilesAlone(t *testing.T) {
	writeProject(t)
	resetRunFlags()

	original, _ := os.ReadFile(filepath.Join("src", "app.ts"))

	var buf bytes.Buffer
	cmd := NewRunCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	runDryRun = true

	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("runRun failed: %v", err)
	}

	after, _ := os.ReadFile(filepath.Join("src", "app.ts"))
	if string(after) != string(original) {
		t.Error("dry run must not rewrite files")
	}
	if !strings.Contains(buf.String(), "would rewrite") {
		t.Errorf("expected dry-run report, got: %s", buf.String())
	}
}

func TestRunRun_OutDir(t *testing.T) {
	writeProject(t)
	resetRunFlags()

	original, _ := os.ReadFile(filepath.Join("src", "app.ts"))

	var buf bytes.Buffer
	cmd := NewRunCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	runOut = "build"

	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("runRun failed: %v", err)
	}

	// Original untouched, rewritten copy under build/
	after, _ := os.ReadFile(filepath.Join("src", "app.ts"))
	if string(after) != string(original) {
		t.Error("--out must not rewrite sources in place")
	}

	copied, err := os.ReadFile(filepath.Join("build", "src", "app.ts"))
	if err != nil {
		t.Fatalf("expected rewritten copy under build/: %v", err)
	}
	if strings.Contains(string(copied), "double(") {
		t.Errorf("expected inlined output under build/, got:\n%s", copied)
	}
}

func TestRunRun_JSONStats(t *testing.T) {
	writeProject(t)
	resetRunFlags()

	var buf bytes.Buffer
	cmd := NewRunCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	runJSON = true
	runDryRun = true

	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("runRun failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\"session_id\"") {
		t.Errorf("expected JSON stats output, got: %s", output)
	}
	if !strings.Contains(output, "\"inlined_calls\"") {
		t.Errorf("expected inlined call counts in stats, got: %s", output)
	}
}

func TestRunRun_NoMatches(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	resetRunFlags()

	var buf bytes.Buffer
	cmd := NewRunCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("expected no error on empty tree, got %v", err)
	}
	if !strings.Contains(buf.String(), "No source files") {
		t.Errorf("expected empty-tree notice, got: %s", buf.String())
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/krispya/graft/pkg/inliner"
)

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg == nil {
		t.Fatal("expected config to be non-nil")
	}

	// Check defaults
	if cfg.Source.BaseDir != "." {
		t.Errorf("expected default base dir '.', got %s", cfg.Source.BaseDir)
	}

	if len(cfg.Source.Include) != 1 || cfg.Source.Include[0] != "src/**/*.{ts,tsx,js,jsx,mjs,cjs}" {
		t.Errorf("expected default include pattern, got %v", cfg.Source.Include)
	}

	if !cfg.Discovery.FollowReExports {
		t.Error("expected re-export following on by default")
	}

	if cfg.Discovery.FollowImports != "all" {
		t.Errorf("expected default follow_imports 'all', got %s", cfg.Discovery.FollowImports)
	}

	if cfg.Debug != "off" {
		t.Errorf("expected default debug 'off', got %s", cfg.Debug)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	// Create temporary directory with config file
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	// Write config file
	configContent := `
source:
  base_dir: web
  include:
    - "app/**/*.ts"
    - "lib/**/*.ts"
  exclude:
    - "**/fixtures/**"
discovery:
  follow_re_exports: false
  follow_imports: side-effects
debug: summary
`
	os.WriteFile("graft.yml", []byte(configContent), 0644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.Source.BaseDir != "web" {
		t.Errorf("expected base dir 'web', got %s", cfg.Source.BaseDir)
	}

	if len(cfg.Source.Include) != 2 || cfg.Source.Include[1] != "lib/**/*.ts" {
		t.Errorf("expected two include patterns, got %v", cfg.Source.Include)
	}

	if len(cfg.Source.Exclude) != 1 || cfg.Source.Exclude[0] != "**/fixtures/**" {
		t.Errorf("expected one exclude pattern, got %v", cfg.Source.Exclude)
	}

	if cfg.Discovery.FollowReExports {
		t.Error("expected re-export following off")
	}

	if cfg.Discovery.FollowImports != "side-effects" {
		t.Errorf("expected follow_imports 'side-effects', got %s", cfg.Discovery.FollowImports)
	}

	if cfg.Debug != "summary" {
		t.Errorf("expected debug 'summary', got %s", cfg.Debug)
	}
}

func TestLoadRejectsBadDebugLevel(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	os.WriteFile("graft.yml", []byte("debug: loud\n"), 0644)

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown debug level, got nil")
	}
}

func TestLoadRejectsBadImportPolicy(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	os.WriteFile("graft.yml", []byte("discovery:\n  follow_imports: sometimes\n"), 0644)

	if _, err := Load(); err == nil {
		t.Error("expected error for unknown import policy, got nil")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	os.Setenv("GRAFT_DEBUG", "verbose")
	defer os.Unsetenv("GRAFT_DEBUG")
	os.Setenv("GRAFT_SOURCE_BASE_DIR", "web")
	defer os.Unsetenv("GRAFT_SOURCE_BASE_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	if cfg.Debug != "verbose" {
		t.Errorf("expected GRAFT_DEBUG to win, got %s", cfg.Debug)
	}

	if cfg.Source.BaseDir != "web" {
		t.Errorf("expected GRAFT_SOURCE_BASE_DIR to win, got %s", cfg.Source.BaseDir)
	}
}

func TestDebugLevelMapping(t *testing.T) {
	cases := []struct {
		value string
		want  inliner.DebugLevel
	}{
		{"off", inliner.DebugOff},
		{"summary", inliner.DebugSummary},
		{"verbose", inliner.DebugVerbose},
	}

	for _, tc := range cases {
		cfg := &Config{Debug: tc.value}
		if got := cfg.DebugLevel(); got != tc.want {
			t.Errorf("debug %q: expected level %v, got %v", tc.value, tc.want, got)
		}
	}
}

func TestImportPolicyMapping(t *testing.T) {
	cases := []struct {
		value string
		want  inliner.ImportPolicy
	}{
		{"all", inliner.ImportsAll},
		{"side-effects", inliner.ImportsSideEffects},
		{"off", inliner.ImportsOff},
	}

	for _, tc := range cases {
		cfg := &Config{Discovery: DiscoveryConfig{FollowImports: tc.value}}
		if got := cfg.ImportPolicy(); got != tc.want {
			t.Errorf("policy %q: expected %v, got %v", tc.value, tc.want, got)
		}
	}
}

func TestInProject(t *testing.T) {
	// Test in non-project directory
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	if InProject() {
		t.Error("expected InProject to return false in non-project directory")
	}

	os.WriteFile("graft.yml", []byte(""), 0644)

	if !InProject() {
		t.Error("expected InProject to return true in project directory")
	}
}

func TestGetProjectRoot(t *testing.T) {
	// Create nested directory structure
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	// Create project root with graft.yml
	os.WriteFile(filepath.Join(tmpDir, "graft.yml"), []byte(""), 0644)

	// Create nested subdirectory
	subDir := filepath.Join(tmpDir, "src", "deep", "nested")
	os.MkdirAll(subDir, 0755)
	os.Chdir(subDir)

	root, err := GetProjectRoot()
	if err != nil {
		t.Fatalf("expected to find project root, got error: %v", err)
	}

	// On macOS, /tmp is symlinked to /private/tmp, so resolve both paths
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)

	if resolvedRoot != resolvedTmpDir {
		t.Errorf("expected project root to be %s, got %s", resolvedTmpDir, resolvedRoot)
	}
}

func TestGetProjectRootFallsBackToPackageJSON(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	defer os.Chdir(oldWd)

	os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{}"), 0644)

	subDir := filepath.Join(tmpDir, "src", "components")
	os.MkdirAll(subDir, 0755)
	os.Chdir(subDir)

	root, err := GetProjectRoot()
	if err != nil {
		t.Fatalf("expected to find project root, got error: %v", err)
	}

	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedTmpDir, _ := filepath.EvalSymlinks(tmpDir)

	if resolvedRoot != resolvedTmpDir {
		t.Errorf("expected project root to be %s, got %s", resolvedTmpDir, resolvedRoot)
	}
}

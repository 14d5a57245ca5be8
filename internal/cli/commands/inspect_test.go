package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()

	if cmd.Use != "inspect [path...]" {
		t.Errorf("expected Use to be 'inspect [path...]', got %s", cmd.Use)
	}

	if cmd.Flags().Lookup("json") == nil {
		t.Error("expected --json flag to be registered")
	}
}

func TestRunInspect_ListsCollectedFunctions(t *testing.T) {
	writeProject(t)
	inspectJSON = false

	var buf bytes.Buffer
	cmd := NewInspectCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	if err := runInspect(cmd, nil); err != nil {
		t.Fatalf("runInspect failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "double") {
		t.Errorf("expected collected function in output, got: %s", output)
	}
	if !strings.Contains(output, "src/math.ts") {
		t.Errorf("expected declaring file in output, got: %s", output)
	}
	if !strings.Contains(output, "(x)") {
		t.Errorf("expected parameter signature in output, got: %s", output)
	}
}

func TestRunInspect_JSON(t *testing.T) {
	writeProject(t)

	var buf bytes.Buffer
	cmd := NewInspectCommand()

	inspectJSON = true
	defer func() { inspectJSON = false }()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	if err := runInspect(cmd, nil); err != nil {
		t.Fatalf("runInspect failed: %v", err)
	}

	var rows []inspectRow
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("expected valid JSON, got %v:\n%s", err, buf.String())
	}

	var double *inspectRow
	for i := range rows {
		if rows[i].Name == "double" {
			double = &rows[i]
		}
	}
	if double == nil {
		t.Fatalf("expected 'double' in collected rows, got %v", rows)
	}
	if !double.Inline {
		t.Error("expected 'double' to carry the inline tag")
	}
	if double.File != "src/math.ts" {
		t.Errorf("expected declaring file src/math.ts, got %s", double.File)
	}
}

package commands

import (
	"testing"
)

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	if cmd.Use != "watch" {
		t.Errorf("expected Use to be 'watch', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Flags().Lookup("debounce") == nil {
		t.Error("expected --debounce flag to be registered")
	}
}

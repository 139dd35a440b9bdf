package cmd

import (
	"bytes"
	"testing"

	"github.com/example/restique/internal/config"
	"github.com/example/restique/internal/logging"
)

func quietConsole(t *testing.T) {
	t.Helper()
	var out, errOut bytes.Buffer
	console = logging.NewWithWriters(true, 0, &out, &errOut)
}

func TestRunHooks_EmptyChainPasses(t *testing.T) {
	quietConsole(t)

	passed, err := runHooks("IF", nil)
	if err != nil {
		t.Fatalf("runHooks() error = %v", err)
	}
	if !passed {
		t.Error("empty hook chain must pass the gate")
	}
}

func TestRunHooks_FailingHookClosesGate(t *testing.T) {
	quietConsole(t)

	hooks := []config.CommandSeq{
		{"sh", "-c", "exit 0"},
		{"sh", "-c", "exit 5"},
	}
	passed, err := runHooks("IF", hooks)
	if err != nil {
		t.Fatalf("runHooks() error = %v", err)
	}
	if passed {
		t.Error("gate must close on the first failing hook")
	}
}

func TestRunHooks_SpawnFailureIsAnError(t *testing.T) {
	quietConsole(t)

	hooks := []config.CommandSeq{{"definitely-not-a-real-binary-4711"}}
	if _, err := runHooks("IF", hooks); err == nil {
		t.Error("expected error for unrunnable hook")
	}
}

func TestEngineVerbosity(t *testing.T) {
	var out, errOut bytes.Buffer

	console = logging.NewWithWriters(false, 0, &out, &errOut)
	if got := engineVerbosity(); got != 0 {
		t.Errorf("engineVerbosity() = %d at default verbosity, want 0", got)
	}

	console = logging.NewWithWriters(false, 2, &out, &errOut)
	if got := engineVerbosity(); got != 2 {
		t.Errorf("engineVerbosity() = %d at -vv, want 2", got)
	}

	console = logging.NewWithWriters(true, 0, &out, &errOut)
	if got := engineVerbosity(); got != 0 {
		t.Errorf("engineVerbosity() = %d when quiet, want 0", got)
	}
}

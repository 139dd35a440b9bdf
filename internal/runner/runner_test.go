package runner

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func pathVar(t *testing.T) string {
	t.Helper()
	return os.Getenv("PATH")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func shCmd(script string) Command {
	return Command{Program: "sh", Args: []string{"-c", script}}
}

func TestRun_CapturesBothStreams(t *testing.T) {
	for _, echo := range []bool{false, true} {
		var out, errOut bytes.Buffer
		r := &Runner{Out: &out, ErrOut: &errOut}

		result, err := r.Run(shCmd(`printf 'line1\n'; printf 'line2\n' >&2`), echo)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !result.Success() {
			t.Fatalf("expected success, got exit code %d", result.ExitCode)
		}
		if got := string(result.Stdout); got != "line1\n" {
			t.Errorf("echo=%v: captured stdout = %q, want %q", echo, got, "line1\n")
		}
		if got := string(result.Stderr); got != "line2\n" {
			t.Errorf("echo=%v: captured stderr = %q, want %q", echo, got, "line2\n")
		}

		wantEchoed := ""
		if echo {
			wantEchoed = "line1\n"
		}
		if out.String() != wantEchoed {
			t.Errorf("echo=%v: echoed stdout = %q, want %q", echo, out.String(), wantEchoed)
		}
	}
}

func TestRun_NonZeroExitIsNotAnError(t *testing.T) {
	r := &Runner{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}

	result, err := r.Run(shCmd("exit 42"), false)
	if err != nil {
		t.Fatalf("Run() error = %v, non-zero exit must not be an error", err)
	}
	if result.ExitCode != 42 {
		t.Errorf("ExitCode = %d, want 42", result.ExitCode)
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	r := &Runner{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}

	_, err := r.Run(Command{Program: "definitely-not-a-real-binary-4711"}, false)
	if err == nil {
		t.Fatal("expected spawn error for missing binary")
	}
}

func TestRun_ReplacesEnvironment(t *testing.T) {
	t.Setenv("RUNNER_TEST_LEAK", "leaked")

	r := &Runner{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}
	result, err := r.Run(Command{
		Program: "sh",
		Args:    []string{"-c", "echo \"${RUNNER_TEST_LEAK}-${RUNNER_TEST_SET}\""},
		Env:     []string{"RUNNER_TEST_SET=yes", "PATH=" + pathVar(t)},
	}, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(string(result.Stdout)); got != "-yes" {
		t.Errorf("child env = %q, want %q (inherited variable must not leak)", got, "-yes")
	}
}

func TestRunSequential_StopsAtFirstFailure(t *testing.T) {
	r := &Runner{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}

	marker := t.TempDir() + "/ran-c"
	cmds := []Command{
		shCmd("exit 0"),
		shCmd("exit 5"),
		shCmd("touch " + marker),
	}

	result, err := r.RunSequential(cmds, false)
	if err != nil {
		t.Fatalf("RunSequential() error = %v", err)
	}
	if result.ExitCode != 5 {
		t.Errorf("ExitCode = %d, want 5 (the first failing command)", result.ExitCode)
	}
	if fileExists(marker) {
		t.Error("third command ran although the second failed")
	}
}

func TestRunSequential_EmptyListSucceeds(t *testing.T) {
	r := &Runner{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}

	result, err := r.RunSequential(nil, false)
	if err != nil {
		t.Fatalf("RunSequential() error = %v", err)
	}
	if !result.Success() {
		t.Errorf("empty command list must succeed, got exit code %d", result.ExitCode)
	}
}

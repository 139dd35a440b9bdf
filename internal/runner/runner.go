// Package runner executes external commands with full dual-stream capture.
// Both output streams are buffered in their entirety and, unless suppressed,
// relayed live to the console while the command runs.
package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command is a fully resolved subprocess invocation. A nil Env inherits the
// parent environment; a non-nil Env replaces it completely.
type Command struct {
	Program string
	Args    []string
	Env     []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a finished subprocess. A non-zero ExitCode is
// data, not an error; callers decide its significance.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the command exited with code zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// ExitError is a structured engine failure: the program that ran, its exit
// code and everything it wrote.
type ExitError struct {
	Program  string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("execution of %q failed (exit code %d)", e.Program, e.ExitCode)
}

// Runner launches commands and tees their output. Out and ErrOut receive the
// live echo; they default to the process streams.
type Runner struct {
	Out    io.Writer
	ErrOut io.Writer
}

// New returns a Runner echoing to stdout and stderr.
func New() *Runner {
	return &Runner{Out: os.Stdout, ErrOut: os.Stderr}
}

// Run executes cmd and returns its result. Each output stream is drained by
// its own goroutine into an in-memory buffer and, when echo is set, copied
// chunk-wise to the corresponding console stream. Run returns an error only
// for spawn or pipe failures; a non-zero exit lands in Result.ExitCode.
//
// Bytes within one stream keep their arrival order. No ordering holds
// between stdout and stderr.
func (r *Runner) Run(cmd Command, echo bool) (Result, error) {
	c := exec.Command(cmd.Program, cmd.Args...)
	if cmd.Env != nil {
		c.Env = cmd.Env
	}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe for %s: %w", cmd.Program, err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stderr pipe for %s: %w", cmd.Program, err)
	}

	if err := c.Start(); err != nil {
		return Result{}, fmt.Errorf("starting %s: %w", cmd.Program, err)
	}

	outDone := tee(stdout, echoWriter(echo, r.Out))
	errDone := tee(stderr, echoWriter(echo, r.ErrOut))

	// Drain both pipes fully before Wait so no trailing output is lost.
	outBytes := <-outDone
	errBytes := <-errDone

	waitErr := c.Wait()
	result := Result{Stdout: outBytes, Stderr: errBytes}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("waiting for %s: %w", cmd.Program, waitErr)
	}
	return result, nil
}

// tee copies r into a buffer and mirrors every chunk to echo, delivering the
// buffered bytes on the returned channel once the stream is exhausted.
func tee(r io.Reader, echo io.Writer) <-chan []byte {
	done := make(chan []byte, 1)
	go func() {
		var buf bytes.Buffer
		w := io.Writer(&buf)
		if echo != nil {
			w = io.MultiWriter(&buf, echo)
		}
		// Read errors end the copy; whatever arrived stays captured.
		_, _ = io.Copy(w, r)
		done <- buf.Bytes()
	}()
	return done
}

func echoWriter(echo bool, w io.Writer) io.Writer {
	if !echo {
		return nil
	}
	return w
}

// RunSequential runs cmds in order, stopping at the first command that does
// not succeed and returning that command's result. An empty list is
// trivially successful.
func (r *Runner) RunSequential(cmds []Command, echo bool) (Result, error) {
	for _, cmd := range cmds {
		result, err := r.Run(cmd, echo)
		if err != nil {
			return result, err
		}
		if !result.Success() {
			return result, nil
		}
	}
	return Result{}, nil
}

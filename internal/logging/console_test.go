package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevels_DefaultVerbosity(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewWithWriters(false, 0, &out, &errOut)

	c.Log(LevelError, "boom")
	c.Log(LevelWarn, "careful")
	c.Log(LevelInfo, "hello")
	c.Log(LevelDebug, "details")
	c.Log(LevelTrace, "noise")

	if !strings.Contains(errOut.String(), "boom") {
		t.Errorf("expected error message on error stream, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "careful") {
		t.Errorf("expected warning on error stream, got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "hello") {
		t.Errorf("expected info message on out stream, got %q", out.String())
	}
	if strings.Contains(out.String(), "details") {
		t.Errorf("debug message should be suppressed at default verbosity")
	}
	if strings.Contains(out.String(), "noise") {
		t.Errorf("trace message should be suppressed at default verbosity")
	}
}

func TestLogLevels_Quiet(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewWithWriters(true, 0, &out, &errOut)

	c.Log(LevelError, "boom")
	c.Log(LevelInfo, "hello")

	if out.Len() != 0 || errOut.Len() != 0 {
		t.Errorf("quiet console must print nothing, got out=%q err=%q", out.String(), errOut.String())
	}
}

func TestLogLevels_Verbose(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewWithWriters(false, 2, &out, &errOut)

	c.Log(LevelDebug, "details")
	c.Log(LevelTrace, "noise")

	if !strings.Contains(out.String(), "details") {
		t.Errorf("expected debug message at -vv, got %q", out.String())
	}
	if !strings.Contains(out.String(), "noise") {
		t.Errorf("expected trace message at -vv, got %q", out.String())
	}
}

func TestEcho(t *testing.T) {
	tests := []struct {
		name    string
		quiet   bool
		verbose int
		want    bool
	}{
		{"default", false, 0, true},
		{"verbose", false, 1, true},
		{"quiet", true, 0, false},
		{"quiet verbose", true, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			c := NewWithWriters(tt.quiet, tt.verbose, &out, &errOut)
			if got := c.Echo(); got != tt.want {
				t.Errorf("Echo() = %v, want %v", got, tt.want)
			}
		})
	}
}

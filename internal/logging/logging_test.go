package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]hclog.Level{
		"":        hclog.Info,
		"debug":   hclog.Debug,
		"WARN":    hclog.Warn,
		" error ": hclog.Error,
		"bogus":   hclog.Info,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Name: "test", Level: "debug", JSON: true, Output: &buf})
	logger.Debug("hello", "design", "contact")

	out := buf.String()
	if !strings.Contains(out, `"@message":"hello"`) {
		t.Fatalf("expected json message, got %q", out)
	}
	if !strings.Contains(out, `"design":"contact"`) {
		t.Fatalf("expected structured field, got %q", out)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Output: &buf})
	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}

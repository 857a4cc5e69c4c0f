// Package logging builds the process logger used by the formdesigner
// binaries.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Options configures New.
type Options struct {
	Name   string
	Level  string
	JSON   bool
	Output io.Writer
}

// New returns an hclog logger. Unknown levels fall back to info.
func New(opts Options) hclog.Logger {
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = "formdesigner"
	}
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      ParseLevel(opts.Level),
		Output:     output,
		JSONFormat: opts.JSON,
	})
}

// ParseLevel maps a level name to an hclog level, defaulting to info.
func ParseLevel(level string) hclog.Level {
	parsed := hclog.LevelFromString(strings.TrimSpace(level))
	if parsed == hclog.NoLevel {
		return hclog.Info
	}
	return parsed
}

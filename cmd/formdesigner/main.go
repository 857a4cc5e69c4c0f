// Command formdesigner renders, validates, fills and serves form designs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdesigner/internal/logging"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func (g *globals) logger(w io.Writer) hclog.Logger {
	return logging.New(logging.Options{
		Name:   "formdesigner",
		Level:  g.logLevel,
		JSON:   g.logJSON,
		Output: w,
	})
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, red("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "formdesigner",
		Short:         "Design, render and validate forms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "emit logs as JSON")

	root.AddCommand(
		newRenderCmd(g),
		newValidateCmd(g),
		newFillCmd(g),
		newScaffoldCmd(g),
		newPaletteCmd(),
		newServeCmd(g),
	)
	return root
}

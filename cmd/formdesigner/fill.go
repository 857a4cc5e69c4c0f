package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/renderers/tui"
)

func newFillCmd(g *globals) *cobra.Command {
	var (
		format     string
		valuesPath string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "fill <design>",
		Short: "Fill a design interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			design, err := readDesign(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			switch tui.OutputFormat(format) {
			case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
			logger := g.logger(cmd.ErrOrStderr())

			renderer, err := tui.New(
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(logger.Named("tui")),
			)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			registry.MustRegister(renderer)

			orch := orchestrator.New(orchestrator.WithRegistry(registry), orchestrator.WithLogger(logger))
			result, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Design:        &design,
				Renderer:      renderer.Name(),
				RenderOptions: render.RenderOptions{Values: values},
			})
			if err != nil {
				return err
			}
			return writeOutput(output, append(result.Output, '\n'), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with prefilled answers")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

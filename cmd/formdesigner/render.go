package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdesigner/pkg/model"
	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
	"github.com/goliatone/go-formdesigner/pkg/render"
	"github.com/goliatone/go-formdesigner/pkg/renderers/html"
)

type renderFlags struct {
	mode    string
	theme   string
	variant string
	values  string
	output  string
	action  string
	minify  bool
	strict  bool
}

func newRenderCmd(g *globals) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render <design>",
		Short: "Render a design document to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			design, err := readDesign(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(f.values)
			if err != nil {
				return err
			}
			logger := g.logger(cmd.ErrOrStderr())

			renderer, err := html.New(html.WithMinify(f.minify), html.WithLogger(logger.Named("html")))
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			registry.MustRegister(renderer)

			orch := orchestrator.New(
				orchestrator.WithRegistry(registry),
				orchestrator.WithStrictLint(f.strict),
				orchestrator.WithLogger(logger),
			)
			result, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Design:       &design,
				ThemeName:    f.theme,
				ThemeVariant: f.variant,
				RenderOptions: render.RenderOptions{
					Mode:   model.ParseMode(f.mode),
					Values: values,
					Action: f.action,
				},
			})
			if err != nil {
				return err
			}
			return writeOutput(f.output, result.Output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&f.mode, "mode", string(model.ModePreview), "render mode (design, preview, readonly)")
	cmd.Flags().StringVar(&f.theme, "theme", "", "theme name")
	cmd.Flags().StringVar(&f.variant, "variant", "", "theme variant")
	cmd.Flags().StringVar(&f.values, "values", "", "JSON or YAML file with prefilled values")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&f.action, "action", "", "form action URL")
	cmd.Flags().BoolVar(&f.minify, "minify", false, "minify the HTML output")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail when the design has lint errors")
	return cmd
}

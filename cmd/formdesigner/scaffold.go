package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	formdesigner "github.com/goliatone/go-formdesigner"
	"github.com/goliatone/go-formdesigner/pkg/binding"
	"github.com/goliatone/go-formdesigner/pkg/library"
	"github.com/goliatone/go-formdesigner/pkg/model"
)

func newScaffoldCmd(g *globals) *cobra.Command {
	var (
		models   []string
		designID string
		format   string
		output   string
		list     bool
	)
	cmd := &cobra.Command{
		Use:   "scaffold <openapi>",
		Short: "Build a design from the models of an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := formdesigner.LoadCatalog(cmd.Context(), args[0], binding.WithHTTPFallback(30*time.Second))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if list {
				for _, m := range catalog.Models() {
					fmt.Fprintf(out, "%s\t%s\n", bold(m.ID), strings.Join(m.Keys(), ", "))
				}
				return nil
			}
			if len(models) == 0 {
				return fmt.Errorf("at least one --model is required (use --list to see models)")
			}

			design, err := scaffoldDesign(catalog, designID, models)
			if err != nil {
				return err
			}
			data, err := library.Encode(design, library.Format(strings.ToLower(format)))
			if err != nil {
				return err
			}
			g.logger(cmd.ErrOrStderr()).Debug("scaffolded design", "design", design.ID, "widgets", len(design.Widgets))
			return writeOutput(output, data, out)
		},
	}
	cmd.Flags().StringSliceVarP(&models, "model", "m", nil, "model id to scaffold (repeatable)")
	cmd.Flags().StringVar(&designID, "id", "", "design id (defaults to the first model id)")
	cmd.Flags().StringVar(&format, "format", string(library.FormatJSON), "output format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&list, "list", false, "list the models in the document")
	return cmd
}

func scaffoldDesign(catalog *binding.Catalog, designID string, models []string) (model.Design, error) {
	ids := model.NewSequenceGenerator()
	scaffolder := binding.NewScaffolder(catalog, binding.WithIDGenerator(ids))
	design := model.Design{
		ID:   designID,
		Name: model.DefaultLabeler(models[0]),
	}
	if design.ID == "" {
		design.ID = strings.ToLower(models[0])
	}
	for _, id := range models {
		widget, err := scaffolder.Scaffold(id)
		if err != nil {
			return model.Design{}, err
		}
		design.Widgets = append(design.Widgets, widget)
	}
	design.Normalize()
	return design, nil
}

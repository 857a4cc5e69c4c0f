package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdesigner/pkg/orchestrator"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(g *globals) *cobra.Command {
	var (
		valuesPath string
		strict     bool
	)
	cmd := &cobra.Command{
		Use:   "validate <design>...",
		Short: "Lint designs and optionally validate a value bag against them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			orch := orchestrator.New(orchestrator.WithLogger(g.logger(cmd.ErrOrStderr())))
			out := cmd.OutOrStdout()

			failed := false
			for _, path := range args {
				design, err := readDesign(path)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, bold(path))
				if printIssues(out, orchestrator.Lint(design), strict) {
					failed = true
				}
				if values == nil {
					continue
				}
				result, err := orch.Validate(cmd.Context(), orchestrator.ValidateRequest{Design: &design, Values: values})
				if err != nil {
					return err
				}
				if printFieldErrors(out, result.FieldErrors()) {
					failed = true
				}
			}
			if failed {
				return errValidationFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with values to validate")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat lint warnings as failures")
	return cmd
}

// printIssues reports lint issues and whether any of them fails the run.
func printIssues(w io.Writer, issues []orchestrator.Issue, strict bool) bool {
	if len(issues) == 0 {
		fmt.Fprintln(w, "  "+green("design ok"))
		return false
	}
	failed := false
	for _, issue := range issues {
		paint := yellow
		if issue.Severity == orchestrator.SeverityError {
			paint = red
			failed = true
		} else if strict {
			failed = true
		}
		fmt.Fprintln(w, "  "+paint(issue.String()))
	}
	return failed
}

// printFieldErrors reports validation errors and whether there were any.
func printFieldErrors(w io.Writer, errs map[string][]string) bool {
	if len(errs) == 0 {
		fmt.Fprintln(w, "  "+green("values ok"))
		return false
	}
	ids := make([]string, 0, len(errs))
	for id := range errs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, msg := range errs[id] {
			fmt.Fprintf(w, "  %s %s\n", red(id+":"), msg)
		}
	}
	return true
}

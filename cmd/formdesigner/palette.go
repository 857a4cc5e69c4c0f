package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdesigner/pkg/palette"
)

func newPaletteCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the palette entries available to the canvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups := palette.NewDefaultCatalog().Groups()
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(groups, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}
			for _, group := range groups {
				fmt.Fprintln(out, bold(group.Category))
				for _, entry := range group.Entries {
					fmt.Fprintf(out, "  %-20s %s\n", entry.ID, entry.Description)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

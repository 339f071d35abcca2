package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/evalnorm/internal/evaluation"
)

func newErasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eras",
		Short: "List the known spreadsheet layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ERA\tTERMS\tSTART ROW\tRESCALE")
			for _, l := range evaluation.Eras() {
				rescale := "no"
				if l.Rescale {
					rescale = "1-7 to 1-5"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", l.Era, l.Label, l.StartRow, rescale)
			}
			return w.Flush()
		},
	}
}

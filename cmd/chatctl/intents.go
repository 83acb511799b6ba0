package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newIntentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List the loaded intents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, factory, err := opts.load(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tPATTERNS\tRESPONSES\tFLOW")
			for _, intent := range factory.Intents.All() {
				flow := "-"
				if factory.Flows.Has(intent.Tag) {
					flow = "yes"
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", intent.Tag, len(intent.Patterns), len(intent.Responses), flow)
			}
			return w.Flush()
		},
	}
}

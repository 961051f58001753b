package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/pcells/layers"
	"github.com/spf13/cobra"
)

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "List the process layers.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tNUMBER\tPURPOSE")

		for _, name := range layers.Names() {
			l := layers.MustByName(name)
			fmt.Fprintf(w, "%s\t%d\t%d\n", name, l.Number, l.Purpose)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(layersCmd)
}

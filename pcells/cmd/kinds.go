package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sarchlab/pcells/pcell"
	"github.com/spf13/cobra"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the cell kinds that can be built.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tPARAMETERS")

		for _, name := range pcell.Names() {
			def, err := pcell.Lookup(name)
			if err != nil {
				return err
			}

			var params []string
			for _, d := range def.Params() {
				if !d.ReadOnly {
					params = append(params, d.Name)
				}
			}

			fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(params, " "))
		}

		return w.Flush()
	},
}

var paramsCmd = &cobra.Command{
	Use:   "params <kind>",
	Short: "Show the parameters of a cell kind.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := pcell.Lookup(args[0])
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tDEFAULT\tUNIT\tCHOICES\tDESCRIPTION")

		for _, d := range def.Params() {
			typ := d.Type.String()
			if d.ReadOnly {
				typ += " (read-only)"
			}

			fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\t%s\n",
				d.Name, typ, d.Default, d.Unit,
				strings.Join(d.Choices, "|"), d.Description)
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(paramsCmd)
}

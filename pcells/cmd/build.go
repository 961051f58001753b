package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/sarchlab/pcells/gds"
	"github.com/sarchlab/pcells/layout"
	"github.com/sarchlab/pcells/pcell"
	"github.com/sarchlab/pcells/render"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var buildCmd = &cobra.Command{
	Use:   "build <kind>",
	Short: "Build one cell.",
	Long: "`build <kind> --set name=value ...` builds a cell. Parameters " +
		"that are not set take their defaults; values out of range are " +
		"clamped and the values used are printed.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")

		values, err := parseSets(sets)
		if err != nil {
			return err
		}

		s := newSession(cmd)
		defer s.Close()

		res, err := s.Build(args[0], values)
		if err != nil {
			return err
		}

		printResult(cmd, res.Cell, res.Kind, res.Values)

		gdsPath, _ := cmd.Flags().GetString("gds")
		if gdsPath != "" {
			lib := layout.NewLibrary(s.Library().Name)
			lib.Add(res.Cell)

			if err := gds.WriteFile(gdsPath, lib); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", gdsPath)
		}

		pngPath, _ := cmd.Flags().GetString("png")
		if pngPath != "" {
			if err := render.Save(res.Cell, pngPath, 6*vg.Inch); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pngPath)

			if open, _ := cmd.Flags().GetBool("open"); open {
				return browser.OpenFile(pngPath)
			}
		}

		return nil
	},
}

// parseSets turns name=value pairs into a record. The values stay text; the
// cell definition converts them to the declared types.
func parseSets(sets []string) (pcell.Values, error) {
	values := pcell.Values{}

	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", s)
		}

		values[name] = strings.TrimSpace(value)
	}

	return values, nil
}

func printResult(cmd *cobra.Command, c *layout.Cell, kind string, v pcell.Values) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "cell %s (%s)\n", c.Name(), kind)

	if bbox, ok := c.BBox(); ok {
		fmt.Fprintf(out, "bbox (%.3f, %.3f) - (%.3f, %.3f)\n",
			bbox.X0, bbox.Y0, bbox.X1, bbox.Y1)
	}

	def, err := pcell.Lookup(kind)
	if err != nil {
		return
	}

	for _, d := range def.Params() {
		fmt.Fprintf(out, "  %s = %v\n", d.Name, v[d.Name])
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringArray("set", nil, "set a parameter, as name=value")
	buildCmd.Flags().String("gds", "", "write the cell to a GDSII file")
	buildCmd.Flags().String("png", "", "write a preview image (png, svg or pdf)")
	buildCmd.Flags().Bool("open", false, "open the preview after writing it")
	buildCmd.Flags().Bool("round-trip", false, "pass the cell through a stream file")
}

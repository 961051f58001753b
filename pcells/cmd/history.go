package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/pcells/datarecording"
	"github.com/sarchlab/pcells/session"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded builds, newest first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, _ := cmd.Flags().GetString("db")
		if db == "" {
			db = cfg.RecordDB
		}

		if db == "" {
			return errors.New("no database given; use --db or PCELLS_RECORD_DB")
		}

		reader, err := datarecording.NewReader(datarecording.FileName(db))
		if err != nil {
			return err
		}
		defer reader.Close()

		ok, err := reader.HasTable(cmd.Context(), session.BuildTable)
		if err != nil {
			return err
		}

		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "no builds recorded")
			return nil
		}

		reader.MapTable(session.BuildTable, session.BuildRecord{})

		params := datarecording.QueryParams{OrderBy: "Time DESC"}
		params.Limit, _ = cmd.Flags().GetInt("limit")

		if kind, _ := cmd.Flags().GetString("kind"); kind != "" {
			params.Where = "Kind = ?"
			params.Args = []any{kind}
		}

		rows, total, err := reader.Query(cmd.Context(), session.BuildTable, params)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tKIND\tCELL\tSHAPES\tSIZE\tCACHED\tELAPSED")

		for _, row := range rows {
			r := row.(*session.BuildRecord)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.3fx%.3f\t%t\t%dus\n",
				r.Time, r.Kind, r.Cell, r.Shapes, r.Width, r.Height,
				r.Cached, r.ElapsedUS)
		}

		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d builds\n", len(rows), total)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("db", "", "build history database")
	historyCmd.Flags().String("kind", "", "only show builds of this kind")
	historyCmd.Flags().Int("limit", 20, "number of builds to show, 0 for all")
}

// Package cmd provides the command-line interface for pcells.
package cmd

import (
	"fmt"

	"github.com/sarchlab/pcells/config"
	"github.com/sarchlab/pcells/datarecording"
	"github.com/sarchlab/pcells/session"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// cfg holds the settings loaded before any subcommand runs.
var cfg = config.Default()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pcells",
	Short: "Parametric layout cells for a 130 nm process.",
	Long: `pcells generates transistors, resistors, guard rings and via ` +
		`stacks from parameter records, writes them as GDSII stream files ` +
		`or previews, and can serve them over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env")

		var files []string
		if envFile != "" {
			files = append(files, envFile)
		}

		loaded, err := config.Load(files...)
		if err != nil {
			return err
		}

		cfg = loaded

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			parsed, err := log.ParseLevel(lvl)
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}

			cfg.LogLevel = parsed
		}

		log.SetLevel(cfg.LogLevel)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("env", "", "load settings from this file instead of .env")
	rootCmd.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error")
}

// newSession builds a session from the loaded settings. Flags of the calling
// command override them.
func newSession(cmd *cobra.Command) *session.Session {
	b := session.MakeBuilder().
		WithWorkDir(cfg.WorkDir).
		WithCacheSize(cfg.CacheSize).
		WithLogger(log.StandardLogger())

	roundTrip := cfg.RoundTrip
	if f := cmd.Flags().Lookup("round-trip"); f != nil && f.Changed {
		roundTrip, _ = cmd.Flags().GetBool("round-trip")
	}

	if roundTrip {
		b = b.WithRoundTrip()
	}

	if cfg.RecordDB != "" {
		b = b.WithRecorder(datarecording.New(cfg.RecordDB))
	}

	return b.Build()
}

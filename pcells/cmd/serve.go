package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/sarchlab/pcells/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cells over HTTP until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		port := cfg.Port
		if f := cmd.Flags().Lookup("port"); f.Changed {
			port, _ = cmd.Flags().GetInt("port")
		}

		s := newSession(cmd)
		defer s.Close()

		srv := server.NewServer(s).
			WithLogger(log.StandardLogger()).
			WithPortNumber(port)

		url, err := srv.StartServer()
		if err != nil {
			return err
		}

		if open, _ := cmd.Flags().GetBool("open"); open {
			if err := browser.OpenURL(url); err != nil {
				log.WithError(err).Warn("cannot open browser")
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "port to listen on, 0 picks a free one")
	serveCmd.Flags().Bool("open", false, "open the page in a browser")
	serveCmd.Flags().Bool("round-trip", false, "pass every cell through a stream file")
}

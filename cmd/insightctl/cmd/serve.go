package cmd

import (
	"github.com/nfrund/insightboard/internal/config"
	"github.com/nfrund/insightboard/internal/logging"
	"github.com/nfrund/insightboard/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logging.New()
		if serveAddr != "" {
			cfg.ServerAddr = serveAddr
		}

		s, err := server.New(cfg)
		if err != nil {
			return err
		}
		return s.Start(cfg.GetServerAddr())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides SERVER_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

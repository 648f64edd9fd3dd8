package main

import (
	"github.com/spf13/cobra"

	"github.com/insightloop/contractmeta/config"
	srv "github.com/insightloop/contractmeta/internal/server"
)

func serveCMD() *cobra.Command {
	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if serveAddr != "" {
				cfg.Server.Addr = serveAddr
			}
			return srv.Run(cmd.Context(), cfg, version)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")

	return serve
}

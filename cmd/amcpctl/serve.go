package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danmuck/amcpctl/internal/auth"
	"github.com/danmuck/amcpctl/internal/config"
	"github.com/danmuck/amcpctl/internal/gateway"
	"github.com/danmuck/amcpctl/internal/observability"
	"github.com/danmuck/amcpctl/internal/protocol/session"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		path      string
		noConnect bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway in front of one playout server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			level, err := config.ParseLevel(cfg.Log.Level)
			if err != nil {
				return err
			}
			logger := observability.InitLogger(cfg.Gateway.Name, os.Stdout, level)

			sessCfg, err := cfg.Session()
			if err != nil {
				return err
			}
			client, err := session.NewClient(sessCfg, session.WithCatalog(a.catalog))
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noConnect {
				if err := client.Connect(ctx); err != nil {
					return err
				}
			}

			opts := gateway.Options{
				Name:        cfg.Gateway.Name,
				CorsOrigins: cfg.Gateway.CorsOrigins,
				Catalog:     a.catalog,
				Sender:      client,
				Logger:      logger,
			}
			if cfg.Gateway.AuthToken != "" {
				opts.Auth = auth.StaticToken{Token: cfg.Gateway.AuthToken}
			}
			gw := gateway.New(opts)
			logger.Info().
				Str("addr", cfg.Gateway.Addr).
				Str("server", sessCfg.Address).
				Bool("connected", client.Connected()).
				Msg("gateway listening")
			return gw.Serve(ctx, cfg.Gateway.Addr)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "amcpctl.toml", "gateway config file")
	cmd.Flags().BoolVar(&noConnect, "no-connect", false, "serve compile and catalog routes without a server connection")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"
	"github.com/talkincode/arcatalog/internal/app"
	"github.com/talkincode/arcatalog/internal/catalogapi"
	"github.com/talkincode/arcatalog/internal/webserver"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog web server",
		Example: `  # Start with defaults on port 3000
  arcatalog serve

  # Use a config file and a custom port
  arcatalog serve -c /etc/arcatalog.yml --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Web.Port = port
			}

			application := app.NewApplication(cfg)
			defer application.Release()
			if err := application.Init(); err != nil {
				zap.L().Error("init application", zap.Error(err))
				return err
			}

			srv := webserver.NewServer(cfg.Web, cfg.System.Debug)
			catalogapi.Init(srv, application)
			if err := srv.Start(cmd.Context()); err != nil {
				zap.L().Error("web server stopped", zap.Error(err))
				return err
			}
			zap.L().Info("server stopped")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "port to listen on, overrides web.port")
	return cmd
}

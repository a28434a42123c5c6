package main

import (
	"context"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/talkincode/arcatalog/config"
	"github.com/talkincode/arcatalog/internal/app"
	"gopkg.in/yaml.v3"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "arcatalog",
		Short: "Product catalog service for WebXR augmented reality viewers",
		Long: `arcatalog serves a read-only product catalog, AR runtime settings and
3D model assets to a browser based AR viewer.

The catalog is seeded from a built-in list or a JSON, YAML, CSV or Parquet
file and can live in memory, in PostgreSQL or in an embedded bbolt file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a yaml config file")

	cmd.AddCommand(
		newServeCmd(opts),
		newProductsCmd(opts),
		newCategoriesCmd(opts),
		newExportCmd(opts),
		newVerifyAssetsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.AppConfig, error) {
	return config.LoadConfig(o.configFile)
}

// openCatalog builds an application for one-shot commands. The simulated
// latency only matters to HTTP clients, so it is switched off here.
func (o *rootOptions) openCatalog(ctx context.Context) (*app.Application, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Catalog.Latency = config.LatencyConfig{}
	a := app.NewApplication(cfg)
	if err := a.InitCatalog(ctx); err != nil {
		a.Release()
		return nil, err
	}
	return a, nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/talkincode/arcatalog/internal/catalog"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as csv, xlsx or parquet",
		Example: `  arcatalog export --format csv > catalog.csv
  arcatalog export --format parquet -o catalog.parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := catalog.ParseExportFormat(format)
			if err != nil {
				return err
			}
			a, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Release()

			resp, err := a.Catalog().ListAll(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(err, "create export file")
				}
				defer f.Close()
				w = f
			}
			return catalog.Export(w, exportFormat, resp.Products)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", catalog.FormatCSV, "export format: csv, xlsx or parquet")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	return cmd
}

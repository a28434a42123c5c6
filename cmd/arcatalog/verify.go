package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/talkincode/arcatalog/internal/assets"
)

func newVerifyAssetsCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "verify-assets",
		Short: "Check that every model and image referenced by the catalog exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Release()

			progress := func(m assets.MissingAsset) {
				fmt.Fprintf(cmd.ErrOrStderr(), "missing %s %s (product %s): %s\n", m.Kind, m.URL, m.ProductID, m.Reason)
			}
			if err := a.Bus().Subscribe(assets.TopicMissing, progress); err != nil {
				return errors.Wrap(err, "subscribe asset events")
			}
			defer func() { _ = a.Bus().Unsubscribe(assets.TopicMissing, progress) }()

			report, err := a.VerifyAssets(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeYAML(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if strict && !report.OK() {
				return errors.Errorf("%d of %d assets are missing", len(report.Missing), report.Checked)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any asset is missing")
	return cmd
}

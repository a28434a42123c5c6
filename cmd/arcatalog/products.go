package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/talkincode/arcatalog/internal/domain"
)

func newProductsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect catalog products",
	}
	cmd.AddCommand(newProductsListCmd(opts), newProductsGetCmd(opts), newProductsReseedCmd(opts))
	return cmd
}

func newProductsListCmd(opts *rootOptions) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Release()

			var resp domain.ProductListResponse
			if category != "" {
				resp, err = a.Catalog().ListByCategory(cmd.Context(), category)
			} else {
				resp, err = a.Catalog().ListAll(cmd.Context())
			}
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "exact category to filter by")
	return cmd
}

func newProductsGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Release()

			p, found, err := a.Catalog().GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return errors.Errorf("product %q not found", args[0])
			}
			return writeYAML(cmd.OutOrStdout(), p)
		},
	}
}

func newProductsReseedCmd(opts *rootOptions) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "reseed",
		Short: "Replace the stored catalog with the seed catalog",
		Long: `Replace the products held in PostgreSQL or bbolt with the configured
seed file, or the built-in catalog when no seed file is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Release()

			if err := a.ReseedProducts(cmd.Context(), drop); err != nil {
				return err
			}
			cmd.Println("catalog reseeded")
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "drop and recreate the catalog tables first (postgres)")
	return cmd
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List distinct product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Release()

			categories, err := a.Catalog().ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), map[string][]string{"categories": categories})
		},
	}
}

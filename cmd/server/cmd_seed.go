package main

import (
	"fmt"

	"go-pos-terminal/internal/app"

	"github.com/spf13/cobra"
)

// seedCmd writes the default users and sample products into an empty store.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with the default users and sample catalogue",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := app.New(ctx, *cfg, logg)
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.Store.ListUsers(ctx)
		if err != nil {
			return err
		}
		products, err := a.Store.ListProducts(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "store ready: %d users, %d products\n", len(users), len(products))
		return nil
	},
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func recentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recents",
		Short: "Show or clear recently visited locations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recent locations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			recents := app.cache.GetRecentSearches(ctx)
			if len(recents) == 0 {
				fmt.Println("No recent locations.")
				return nil
			}
			for _, rec := range recents {
				fmt.Printf("%s  %-10s  %s  %s\n",
					rec.NodeID, rec.NodeType, rec.NodeName,
					rec.SearchedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the recent-location list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.cache.ClearRecentSearches(ctx)
		},
	})

	return cmd
}

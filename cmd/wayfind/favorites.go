package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wayfind/domain"
)

func favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite destinations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			favorites := app.cache.GetFavorites(ctx)
			if len(favorites) == 0 {
				fmt.Println("No favorites.")
				return nil
			}
			for _, fav := range favorites {
				fmt.Printf("%s  %-10s  %s\n", fav.NodeID, fav.NodeType, fav.NodeName)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <node-id>",
		Short: "Add a node to favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			node, err := app.client.Nodes.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			return app.cache.AddFavorite(ctx, domain.FavoriteDestination{
				NodeID:   node.ID,
				NodeName: node.Name,
				NodeType: node.Type,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <node-id>",
		Short: "Remove a node from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			return app.cache.RemoveFavorite(ctx, args[0])
		},
	})

	return cmd
}

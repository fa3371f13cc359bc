package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wayfind/domain"
)

func searchCmd() *cobra.Command {
	var buildingID, floorID, nodeType string

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search nodes by name, online or against the offline cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			app.search.SetScope(buildingID, floorID, domain.NodeType(nodeType))
			results, err := app.search.SearchNow(ctx, args[0])
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, node := range results {
				fmt.Printf("%s  %-10s  %s (floor %s)\n", node.ID, node.Type, node.Name, node.FloorID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&buildingID, "building", "", "restrict to a building id")
	cmd.Flags().StringVar(&floorID, "floor", "", "restrict to a floor id")
	cmd.Flags().StringVar(&nodeType, "type", "", "restrict to a node type")
	return cmd
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func routeCmd() *cobra.Command {
	var accessible bool

	cmd := &cobra.Command{
		Use:   "route <start-node-id> <end-node-id>",
		Short: "Calculate a route between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			start, err := app.client.Nodes.GetByID(ctx, args[0])
			if err != nil {
				return fmt.Errorf("start node: %w", err)
			}
			end, err := app.client.Nodes.GetByID(ctx, args[1])
			if err != nil {
				return fmt.Errorf("end node: %w", err)
			}

			app.session.SetStartNode(start)
			app.session.SetEndNode(end)
			app.session.SetRequireAccessible(accessible)

			if err := app.session.CalculateRoute(ctx); err != nil {
				return fmt.Errorf("%s", app.session.Err())
			}

			route := app.session.Route()
			fmt.Printf("Route: %.0f m, about %.0f min\n",
				route.TotalDistance, route.EstimatedTimeMinutes)
			for i, node := range route.PathNodes {
				fmt.Printf("  %2d. %s (%s)\n", i+1, node.Name, node.Type)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&accessible, "accessible", false, "only use accessible paths")
	return cmd
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <payload>",
		Short: "Resolve a scanned QR payload to its location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			node, err := app.scanner.HandleScan(ctx, args[0])
			if err != nil {
				return fmt.Errorf("%s", app.scanner.Err())
			}
			if node == nil {
				fmt.Println("Scan ignored.")
				return nil
			}
			fmt.Printf("%s  %s (%s), floor %s\n", node.ID, node.Name, node.Type, node.FloorID)
			return nil
		},
	}
}

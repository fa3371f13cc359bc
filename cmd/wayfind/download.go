package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wayfind/application/services"
)

func downloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <building-id>",
		Short: "Download a building's map data for offline use",
		Args:  cobra.ExactArgs(1),
		RunE:  runDownload,
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	app, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	buildingID := args[0]
	app.syncer.SetProgressHandler(func(p services.SyncProgress) {
		fmt.Printf("  floor %d/%d\n", p.FetchedFloors, p.TotalFloors)
	})

	snapshot, err := app.syncer.DownloadBuildingData(ctx, buildingID)
	if err != nil {
		return err
	}

	fmt.Printf("Downloaded %q: %d floors, %d nodes\n",
		snapshot.Building.Name, len(snapshot.Floors), snapshot.NodeCount())
	return nil
}

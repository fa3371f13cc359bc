package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "wayfind",
		Short:         "Indoor wayfinding client",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(downloadCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(routeCmd())
	root.AddCommand(scanCmd())
	root.AddCommand(favoritesCmd())
	root.AddCommand(recentsCmd())
	root.AddCommand(monitorCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

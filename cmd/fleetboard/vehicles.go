package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var vehiclesCmd = &cobra.Command{
	Use:     "vehicles [plate]",
	Short:   "List counters for all vehicles, or one plate",
	GroupID: "views",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			v, err := fleetClient.GetVehicle(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("fetching vehicle: %w", err)
			}
			if jsonOutput {
				printJSON(v)
				return nil
			}
			printVehicleDetail(v)
			return nil
		}

		list, err := fleetClient.ListVehicles(context.Background())
		if err != nil {
			return fmt.Errorf("listing vehicles: %w", err)
		}
		if jsonOutput {
			printJSON(list)
			return nil
		}
		printVehicleTable(list.Vehicles, list.Total)
		return nil
	},
}

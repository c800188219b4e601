package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Zero all punctuality counters",
	GroupID: "reports",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := fleetClient.Reset(context.Background())
		if err != nil {
			return fmt.Errorf("resetting counters: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"message": msg})
			return nil
		}
		fmt.Println(msg)
		return nil
	},
}

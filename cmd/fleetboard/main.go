package main

import (
	"os"

	"github.com/groblegark/fleetboard/internal/client"
	"github.com/groblegark/fleetboard/internal/ui"
	"github.com/spf13/cobra"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool

	fleetClient *client.HTTPClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("FLEET_HTTP_URL"); s != "" {
		return s
	}
	if u := configServerURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("FLEET_AUTH_TOKEN"); s != "" {
		return s
	}
	return configAuthToken()
}

var rootCmd = &cobra.Command{
	Use:   "fleetboard <command>",
	Short: "Vehicle punctuality dashboard service and CLI",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		fleetClient = client.New(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if fleetClient != nil {
			fleetClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "fleetboard server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for mutating requests")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "reports", Title: "Reports:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Reports
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)

	// Views
	rootCmd.AddCommand(vehiclesCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

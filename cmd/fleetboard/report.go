package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/groblegark/fleetboard/internal/client"
)

var reportCmd = &cobra.Command{
	Use:     "report <plate>",
	Short:   "Report a vehicle as on time or late",
	GroupID: "reports",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plate := args[0]
		status, _ := cmd.Flags().GetString("status")
		description, _ := cmd.Flags().GetString("description")
		imagePath, _ := cmd.Flags().GetString("image")

		req := &client.UpdateRequest{
			Name:        plate,
			Status:      status,
			Description: description,
		}
		if cmd.Flags().Changed("late") {
			late, _ := cmd.Flags().GetBool("late")
			req.IsLate = &late
		}

		if imagePath != "" {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			req.Image = data
			req.ImageName = filepath.Base(imagePath)
			req.ImageMIME = mime.TypeByExtension(filepath.Ext(imagePath))
			if req.ImageMIME == "" {
				req.ImageMIME = http.DetectContentType(data)
			}
		}

		ack, err := fleetClient.PostUpdate(context.Background(), req)
		if err != nil {
			return fmt.Errorf("submitting report: %w", err)
		}

		if jsonOutput {
			printJSON(ack)
			return nil
		}
		fmt.Printf("%s: %s (early %d, late %d)\n",
			ack.Plate, renderStatus(ack.Status), ack.Early, ack.Late)
		return nil
	},
}

func init() {
	reportCmd.Flags().Bool("late", false, "mark the vehicle late (false marks it on time)")
	reportCmd.Flags().String("status", "", `explicit status ("on_time" or "late"), overrides --late`)
	reportCmd.Flags().String("description", "", "free-form note shown on the dashboard")
	reportCmd.Flags().String("image", "", "path to an image to attach")
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/groblegark/fleetboard/internal/model"
	"github.com/groblegark/fleetboard/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func renderStatus(s model.Status) string {
	if s == model.StatusLate {
		return ui.RenderLate(s.String())
	}
	return ui.RenderOnTime(s.String())
}

func printVehicleDetail(v *model.Vehicle) {
	fmt.Printf("Plate:  %s\n", v.Plate)
	fmt.Printf("Early:  %s\n", ui.RenderOnTime(fmt.Sprintf("%d", v.Early)))
	fmt.Printf("Late:   %s\n", ui.RenderLate(fmt.Sprintf("%d", v.Late)))
}

func printVehicleTable(vehicles []*model.Vehicle, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLATE\tEARLY\tLATE")
	for _, v := range vehicles {
		fmt.Fprintf(w, "%s\t%s\t%s\n",
			v.Plate,
			ui.RenderOnTime(fmt.Sprintf("%d", v.Early)),
			ui.RenderLate(fmt.Sprintf("%d", v.Late)),
		)
	}
	w.Flush()
	fmt.Printf("\n%d vehicles\n", total)
}

func printSnapshotLine(snap *model.Snapshot) {
	ts := ui.RenderMuted(time.Now().Format("15:04:05"))
	line := fmt.Sprintf("%s  %s  %s  early=%d late=%d",
		ts, snap.Name, renderStatus(snap.Status), snap.Early, snap.Late)
	if snap.Description != "" {
		line += "  " + ui.RenderMuted(snap.Description)
	}
	if snap.ImageData != "" {
		line += "  " + ui.RenderMuted("[image]")
	}
	fmt.Println(line)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/groblegark/fleetboard/internal/events"
	"github.com/groblegark/fleetboard/internal/model"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream snapshots as reports arrive",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		useNATS, _ := cmd.Flags().GetBool("nats")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if useNATS {
			natsURL := os.Getenv("FLEET_NATS_URL")
			if natsURL == "" {
				natsURL = configNATSURL()
			}
			if natsURL == "" {
				return fmt.Errorf("--nats requires FLEET_NATS_URL or nats_url in the config file")
			}
			return watchNATS(ctx, natsURL)
		}
		return watchSocket(ctx)
	},
}

// watchSocket follows the dashboard WebSocket feed. A freshly connected
// watcher immediately sees the last known snapshot, if any.
func watchSocket(ctx context.Context) error {
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", wsURL, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var snap model.Snapshot
		if err := conn.ReadJSON(&snap); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading snapshot: %w", err)
		}
		if jsonOutput {
			printJSON(&snap)
		} else {
			printSnapshotLine(&snap)
		}
	}
}

// watchNATS follows the event mirror instead of the WebSocket feed. Unlike the
// socket, the mirror carries no replay: only snapshots published after the
// subscription starts are seen.
func watchNATS(ctx context.Context, natsURL string) error {
	sub, err := events.NewNATSSubscriber(natsURL)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("fleet.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			var event events.SnapshotUpdated
			if err := json.Unmarshal(data, &event); err != nil || event.Snapshot == nil {
				continue
			}
			if jsonOutput {
				printJSON(event.Snapshot)
			} else {
				printSnapshotLine(event.Snapshot)
			}
		}
	}
}

func init() {
	watchCmd.Flags().Bool("nats", false, "subscribe via the NATS event mirror instead of the WebSocket feed")
}

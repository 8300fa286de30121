package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/jengzang/iceberg-dashboard/internal/models"
	"github.com/jengzang/iceberg-dashboard/internal/navigation"
	"github.com/jengzang/iceberg-dashboard/internal/viewstate"
)

// inspectCmd focuses a fresh coordinator on one iceberg and prints the map props
var inspectCmd = &cobra.Command{
	Use:   "inspect <iceberg-id>",
	Short: "Print the map view for one iceberg as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	p, err := navigation.ForIceberg(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	coord := viewstate.New(newUpstream(cfg))
	snap := coord.FocusByID(cmd.Context(), p.IcebergID)

	out, err := json.MarshalIndent(struct {
		viewstate.Snapshot
		Notifications []models.Notification `json:"notifications,omitempty"`
	}{snap, coord.DrainNotifications()}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if snap.Error != "" {
		return fmt.Errorf("iceberg %s: %s", p.IcebergID, snap.Error)
	}
	return nil
}

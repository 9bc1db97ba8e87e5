// Package cmd implements the fburn CLI commands.
package cmd

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/fburn/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default days:   %d\n", cfg.General.DefaultDays)
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	fmt.Printf("    Currency:       %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Vehicle]")
	printVehicle(cfg.Vehicle)
	names := make([]string, 0, len(cfg.Vehicles))
	for name := range cfg.Vehicles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  [Vehicles.%s]\n", name)
		printVehicle(config.VehicleSettings(cfg, name))
	}
	fmt.Println()

	fmt.Println("  [FASTag]")
	fmt.Printf("    Tag cost:    %.0f\n", cfg.Fastag.Cost)
	fmt.Printf("    Total trips: %d\n", cfg.Fastag.TotalTrips)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	if cfg.Daemon.MQTTBroker != "" {
		fmt.Printf("    MQTT broker: %s (topic %s)\n", cfg.Daemon.MQTTBroker, cfg.Daemon.MQTTTopic)
		if cfg.Daemon.MQTTPassword != "" {
			fmt.Printf("    MQTT auth:   %s / %s\n", cfg.Daemon.MQTTUsername, maskSecret(cfg.Daemon.MQTTPassword))
		}
	} else {
		fmt.Println("    MQTT broker: not configured")
	}
	fmt.Printf("    Rate limit:  %d requests/min per client\n", cfg.Daemon.RateLimitPerMin)
	fmt.Println()

	fmt.Println("  Run `fburn setup` to reconfigure.")
	return nil
}

func printVehicle(vc config.VehicleConfig) {
	fmt.Printf("    Tank capacity:      %.1f L\n", vc.TankCapacityL)
	fmt.Printf("    Default economy:    %.1f km/L\n", vc.DefaultEfficiency)
	fmt.Printf("    Averaging:          %s", vc.Weighting)
	if vc.RecentIntervals > 0 {
		fmt.Printf(" (last %d tanks)", vc.RecentIntervals)
	}
	fmt.Println()
}

func maskSecret(s string) string {
	if len(s) > 8 {
		return s[:2] + "..." + s[len(s)-2:]
	}
	return "****"
}

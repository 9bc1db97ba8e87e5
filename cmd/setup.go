package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/fburn/internal/config"
	"github.com/theirongolddev/fburn/internal/source"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Edit the file's own values; the package cfg carries env overrides.
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	ask := func(prompt, current string) string {
		fmt.Printf("     %s [%s]\n     > ", prompt, current)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	fmt.Println()
	fmt.Println("  Welcome to fburn!")
	fmt.Println()
	files, _ := source.ScanDir(flagDataDir)
	if len(files) > 0 {
		fmt.Printf("  Found %d vehicle logs in %s\n\n", len(files), flagDataDir)
	}

	fmt.Println("  1. Log directory")
	if v := ask("Where should vehicle logs live?", config.DataDir(cfg)); v != "" {
		cfg.General.DataDir = v
	}
	fmt.Println()

	fmt.Println("  2. Tank capacity (liters)")
	if v := ask("Usable capacity to the automatic cutoff", strconv.FormatFloat(cfg.Vehicle.TankCapacityL, 'f', -1, 64)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("tank capacity must be a positive number, got %q", v)
		}
		cfg.Vehicle.TankCapacityL = f
	}
	fmt.Println()

	fmt.Println("  3. Default fuel economy (km/L)")
	fmt.Println("     Used until two full-tank fills are logged.")
	if v := ask("Expected economy", strconv.FormatFloat(cfg.Vehicle.DefaultEfficiency, 'f', -1, 64)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("default economy must be a positive number, got %q", v)
		}
		cfg.Vehicle.DefaultEfficiency = f
	}
	fmt.Println()

	fmt.Println("  4. Currency symbol")
	if v := ask("Prefix for money values", cfg.General.Currency); v != "" {
		cfg.General.Currency = v
	}
	fmt.Println()

	fmt.Println("  5. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Tokyo Night")
	fmt.Println("     (3) Terminal (ANSI 16)")
	switch ask("Theme", cfg.Appearance.Theme) {
	case "2":
		cfg.Appearance.Theme = "tokyo-night"
	case "3":
		cfg.Appearance.Theme = "terminal"
	case "1":
		cfg.Appearance.Theme = "flexoki-dark"
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `fburn setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
